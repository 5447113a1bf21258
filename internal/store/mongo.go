package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/imrishuroy/go-pedidos-orderflow/internal/paging"
	"github.com/imrishuroy/go-pedidos-orderflow/internal/pedidos"
)

// Collection is the subset of *mongo.Collection used by MongoStore.
type Collection interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// MongoStore stores one document per order, keyed by _id. Pages are read in
// creation order.
type MongoStore struct {
	coll Collection
}

func NewMongoStore(coll Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// ConnectMongo dials uri and returns a store on database.collection plus a
// function that disconnects the client.
func ConnectMongo(ctx context.Context, uri, database, collection string) (*MongoStore, func(context.Context) error, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}
	coll := client.Database(database).Collection(collection)
	return NewMongoStore(coll), client.Disconnect, nil
}

func (s *MongoStore) GetByPage(ctx context.Context, page, size int) (*paging.Result[pedidos.Order], error) {
	offset, ok := paging.Offset(page, size)
	if !ok {
		return nil, pedidos.InvalidPage(page, size)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(size))

	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, pedidos.SaveError(fmt.Errorf("find: %w", err))
	}
	var out []pedidos.Order
	if err := cur.All(ctx, &out); err != nil {
		return nil, pedidos.SaveError(fmt.Errorf("decode pedidos: %w", err))
	}
	return paging.FromSlice(page, size, out), nil
}

func (s *MongoStore) GetByID(ctx context.Context, id string) (pedidos.Order, error) {
	id, err := pedidos.ParseID(id)
	if err != nil {
		return pedidos.Order{}, err
	}
	cur, err := s.coll.Find(ctx, bson.M{"_id": id}, options.Find().SetLimit(1))
	if err != nil {
		return pedidos.Order{}, pedidos.SaveError(fmt.Errorf("find: %w", err))
	}
	defer func() {
		_ = cur.Close(ctx)
	}()
	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return pedidos.Order{}, pedidos.SaveError(fmt.Errorf("find: %w", err))
		}
		return pedidos.Order{}, pedidos.NotFound(id)
	}
	var o pedidos.Order
	if err := cur.Decode(&o); err != nil {
		return pedidos.Order{}, pedidos.SaveError(fmt.Errorf("decode pedido: %w", err))
	}
	return o, nil
}

func (s *MongoStore) Save(ctx context.Context, o pedidos.Order) (pedidos.Order, error) {
	id, err := pedidos.ParseID(o.ID)
	if err != nil {
		return pedidos.Order{}, err
	}
	o.ID = id
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": id}, o, options.Replace().SetUpsert(true))
	if err != nil {
		return pedidos.Order{}, pedidos.SaveError(fmt.Errorf("replace: %w", err))
	}
	return o, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	id, err := pedidos.ParseID(id)
	if err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return pedidos.SaveError(fmt.Errorf("delete: %w", err))
	}
	return nil
}
