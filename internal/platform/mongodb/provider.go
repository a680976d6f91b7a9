package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// DatabaseProvider hands out databases to repositories. *Manager implements
// it for the shared session; Static wraps a scoped one.
type DatabaseProvider interface {
	Database(ctx context.Context, name string) (*mongo.Database, error)
}

var _ DatabaseProvider = (*Manager)(nil)

// Static serves databases from a fixed session, such as the one passed to
// a WithConnection callback.
type Static struct {
	Session Session
}

// Database returns the named database on the wrapped session.
func (p Static) Database(_ context.Context, name string) (*mongo.Database, error) {
	if p.Session == nil {
		return nil, ErrClosed
	}
	return p.Session.Database(name), nil
}
