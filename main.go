package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Yumax-panda/Mario-Kart/app"
	"github.com/Yumax-panda/Mario-Kart/config"
	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/models"
	"github.com/Yumax-panda/Mario-Kart/scoring"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newCLI().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:    "mario-kart",
		Usage:   "Mario Kart 6v6 war bot",
		Version: constants.BotVersion,
		Action:  runBot,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "connect to Discord and serve commands",
				Action: runBot,
			},
			{
				Name:      "rank",
				Usage:     "parse a rank input and print the race points",
				ArgsUsage: "<ranks>",
				Action:    printRank,
			},
			{
				Name:   "tracks",
				Usage:  "list the known tracks",
				Action: printTracks,
			},
		},
	}
}

func runBot(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	application, err := app.New(c.Context, cfg)
	if err != nil {
		return err
	}
	return application.Run()
}

func printRank(c *cli.Context) error {
	input := strings.Join(c.Args().Slice(), " ")
	rank, ok := models.ParseRank(input)
	if !ok {
		return cli.Exit(fmt.Sprintf("invalid rank input: %q", input), 1)
	}

	points := scoring.RacePoints(rank)
	fmt.Fprintf(c.App.Writer, "%s\n%s\n", rank.String(), points.WithDiff())
	return nil
}

func printTracks(c *cli.Context) error {
	for _, track := range models.Tracks() {
		fmt.Fprintf(c.App.Writer, "%2d %-6s %s\n", track.ID, track.Abbr, track.Name)
	}
	return nil
}
