package clients

import "context"

type StoreAPI interface {
	Insert(ctx context.Context, c Client) error
	Get(ctx context.Context, tenantID, id string) (Client, error)
	List(ctx context.Context, tenantID string, limit, offset int) ([]Client, error)
	Update(ctx context.Context, c Client) error
}
