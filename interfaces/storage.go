package interfaces

import "context"

// UpdateFunc 현재 값을 받아 새 값을 반환합니다. exists가 false이면 current는 nil입니다
type UpdateFunc func(current []byte, exists bool) ([]byte, error)

// BlobStore 경로로 JSON 문서를 읽고 쓰는 키/값 저장소입니다
type BlobStore interface {
	Get(ctx context.Context, path string) ([]byte, error)
	Put(ctx context.Context, path string, data []byte) error
	// Update 읽기-수정-쓰기를 원자적으로 수행합니다. 다른 쓰기와 충돌하면 재시도합니다
	Update(ctx context.Context, path string, fn UpdateFunc) ([]byte, error)
	Delete(ctx context.Context, path string) error
	List(ctx context.Context, prefix string) ([]string, error)

	// 헬스체크 / 리소스 정리
	Ping(ctx context.Context) error
	Close() error
}
