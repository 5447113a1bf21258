package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/imrishuroy/go-pedidos-orderflow/internal/aws"
	"github.com/imrishuroy/go-pedidos-orderflow/internal/paging"
	"github.com/imrishuroy/go-pedidos-orderflow/internal/pedidos"
)

const defaultScanLimit int32 = 100

// DynamoStore stores one item per order in a table keyed by "id".
type DynamoStore struct {
	client    aws.DynamoDBAPI
	tableName string
	scanLimit int32
}

// NewDynamoStore creates a DynamoDB-backed repository. scanLimit bounds the
// items read per Scan call while paging; zero selects a default.
func NewDynamoStore(client aws.DynamoDBAPI, tableName string, scanLimit int32) *DynamoStore {
	if scanLimit <= 0 {
		scanLimit = defaultScanLimit
	}
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		scanLimit: scanLimit,
	}
}

// GetByPage scans the table in storage order, skipping the items of the
// previous pages, until size items are read or the table ends.
func (s *DynamoStore) GetByPage(ctx context.Context, page, size int) (*paging.Result[pedidos.Order], error) {
	offset, ok := paging.Offset(page, size)
	if !ok {
		return nil, pedidos.InvalidPage(page, size)
	}

	out := make([]pedidos.Order, 0, min(size, int(s.scanLimit)))
	var start map[string]types.AttributeValue
	skipped := 0
	for {
		res, err := s.client.Scan(ctx, &dyn.ScanInput{
			TableName:         &s.tableName,
			Limit:             &s.scanLimit,
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, pedidos.SaveError(fmt.Errorf("scan: %w", err))
		}
		for _, item := range res.Items {
			if skipped < offset {
				skipped++
				continue
			}
			var o pedidos.Order
			if err := attributevalue.UnmarshalMap(item, &o); err != nil {
				return nil, pedidos.SaveError(fmt.Errorf("unmarshal pedido: %w", err))
			}
			out = append(out, o)
			if len(out) == size {
				return paging.FromSlice(page, size, out), nil
			}
		}
		if len(res.LastEvaluatedKey) == 0 {
			break
		}
		start = res.LastEvaluatedKey
	}
	return paging.FromSlice(page, size, out), nil
}

// GetByID fetches an order by id.
func (s *DynamoStore) GetByID(ctx context.Context, id string) (pedidos.Order, error) {
	id, err := pedidos.ParseID(id)
	if err != nil {
		return pedidos.Order{}, err
	}
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       itemKey(id),
	})
	if err != nil {
		return pedidos.Order{}, pedidos.SaveError(fmt.Errorf("get item: %w", err))
	}
	if len(out.Item) == 0 {
		return pedidos.Order{}, pedidos.NotFound(id)
	}
	var o pedidos.Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return pedidos.Order{}, pedidos.SaveError(fmt.Errorf("unmarshal pedido: %w", err))
	}
	return o, nil
}

// Save writes the whole order, replacing any item with the same id.
func (s *DynamoStore) Save(ctx context.Context, o pedidos.Order) (pedidos.Order, error) {
	id, err := pedidos.ParseID(o.ID)
	if err != nil {
		return pedidos.Order{}, err
	}
	o.ID = id

	item, err := attributevalue.MarshalMap(o)
	if err != nil {
		return pedidos.Order{}, pedidos.SaveError(fmt.Errorf("marshal pedido: %w", err))
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return pedidos.Order{}, pedidos.SaveError(fmt.Errorf("put item: %w", err))
	}
	return o, nil
}

// Delete removes the order item. DynamoDB treats a missing key as success.
func (s *DynamoStore) Delete(ctx context.Context, id string) error {
	id, err := pedidos.ParseID(id)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key:       itemKey(id),
	})
	if err != nil {
		return pedidos.SaveError(fmt.Errorf("delete item: %w", err))
	}
	return nil
}

func itemKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}
