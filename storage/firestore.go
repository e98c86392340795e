package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/interfaces"
	"github.com/Yumax-panda/Mario-Kart/utils"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// blobDocument Firestore에 저장되는 문서 형식입니다
type blobDocument struct {
	Path      string    `firestore:"path"`
	Data      string    `firestore:"data"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// FirestoreStore Firestore 컬렉션 하나를 경로 기반 키/값 저장소로 사용합니다
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreStore 새로운 FirestoreStore 인스턴스를 생성하고 Firestore에 연결합니다
func NewFirestoreStore(ctx context.Context, credentialsJSON string) (*FirestoreStore, error) {
	utils.Info("Initializing Firestore blob storage")

	if credentialsJSON == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_JSON environment variable not set")
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON([]byte(credentialsJSON)))
	if err != nil {
		return nil, fmt.Errorf("error initializing app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firestore client: %w", err)
	}

	utils.Info("Firestore blob storage initialized successfully")
	return &FirestoreStore{client: client, collection: constants.BlobCollection}, nil
}

// docID 경로를 Firestore 문서 ID로 변환합니다. 문서 ID에는 '/'를 쓸 수 없습니다
func docID(path string) string {
	return strings.ReplaceAll(path, "/", ":")
}

func (s *FirestoreStore) doc(path string) *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(docID(path))
}

func (s *FirestoreStore) Get(ctx context.Context, path string) ([]byte, error) {
	snap, err := s.doc(path).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s from Firestore: %w", path, err)
	}

	var doc blobDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return []byte(doc.Data), nil
}

func (s *FirestoreStore) Put(ctx context.Context, path string, data []byte) error {
	_, err := s.doc(path).Set(ctx, blobDocument{Path: path, Data: string(data), UpdatedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("failed to put %s to Firestore: %w", path, err)
	}
	return nil
}

// Update Firestore 트랜잭션으로 읽기-수정-쓰기를 수행합니다. 경합 시 트랜잭션 전체가 재실행됩니다
func (s *FirestoreStore) Update(ctx context.Context, path string, fn interfaces.UpdateFunc) ([]byte, error) {
	ref := s.doc(path)
	var result []byte

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var current []byte
		exists := false

		snap, err := tx.Get(ref)
		switch {
		case err == nil:
			var doc blobDocument
			if err := snap.DataTo(&doc); err != nil {
				return fmt.Errorf("failed to decode %s: %w", path, err)
			}
			current, exists = []byte(doc.Data), true
		case status.Code(err) == codes.NotFound:
		default:
			return err
		}

		next, err := fn(current, exists)
		if err != nil {
			return err
		}
		result = next
		return tx.Set(ref, blobDocument{Path: path, Data: string(next), UpdatedAt: time.Now()})
	}, firestore.MaxAttempts(constants.MaxUpdateAttempts))

	if err != nil {
		if status.Code(err) == codes.Aborted {
			return nil, fmt.Errorf("%w: %s", ErrConflict, path)
		}
		return nil, err
	}
	return result, nil
}

func (s *FirestoreStore) Delete(ctx context.Context, path string) error {
	if _, err := s.doc(path).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete %s from Firestore: %w", path, err)
	}
	return nil
}

// List path 필드의 범위 조건으로 접두사가 일치하는 경로를 조회합니다
func (s *FirestoreStore) List(ctx context.Context, prefix string) ([]string, error) {
	query := s.client.Collection(s.collection).Query
	if prefix != "" {
		query = query.Where("path", ">=", prefix).Where("path", "<", prefix+"\uf8ff")
	}

	var paths []string
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
		}
		var doc blobDocument
		if err := snap.DataTo(&doc); err != nil {
			utils.Warn("Skipping undecodable blob %s: %v", snap.Ref.ID, err)
			continue
		}
		paths = append(paths, doc.Path)
	}
	return paths, nil
}

// Ping 컬렉션에서 문서 하나를 읽어 연결 상태를 확인합니다
func (s *FirestoreStore) Ping(ctx context.Context) error {
	iter := s.client.Collection(s.collection).Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return fmt.Errorf("firestore ping failed: %w", err)
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
