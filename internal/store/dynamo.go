package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/kiliankoe/rummypool/internal/pool"
)

// GameItem is the single-table item holding a game blob. PK and SK are
// both the namespaced key.
type GameItem struct {
	PK     string
	SK     string
	Type   string
	GameID string
	State  string
}

type Dynamo struct {
	d         dynamodbiface.DynamoDBAPI
	tableName string
}

func NewDynamo(d dynamodbiface.DynamoDBAPI, tableName string) *Dynamo {
	return &Dynamo{d: d, tableName: tableName}
}

// OpenDynamo creates a client from the default credential chain.
func OpenDynamo(region, tableName string) (*Dynamo, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return NewDynamo(dynamodb.New(sess), tableName), nil
}

func (s *Dynamo) Save(ctx context.Context, gameID string, g pool.GameState) error {
	b, err := encode(g)
	if err != nil {
		return err
	}
	item := GameItem{
		PK:     Key(gameID),
		SK:     Key(gameID),
		Type:   "GameState",
		GameID: gameID,
		State:  string(b),
	}
	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal game item: %w", err)
	}
	_, err = s.d.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(s.tableName),
	})
	if err != nil {
		return fmt.Errorf("put game %s: %w", gameID, err)
	}
	return nil
}

func (s *Dynamo) Load(ctx context.Context, gameID string) (pool.GameState, error) {
	result, err := s.d.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(Key(gameID))},
			"SK": {S: aws.String(Key(gameID))},
		},
	})
	if err != nil {
		return pool.GameState{}, fmt.Errorf("get game %s: %w", gameID, err)
	}
	if len(result.Item) == 0 {
		return pool.GameState{}, ErrNotFound
	}
	item := GameItem{}
	if err := dynamodbattribute.UnmarshalMap(result.Item, &item); err != nil {
		return pool.GameState{}, fmt.Errorf("unmarshal game item: %w", err)
	}
	return decode([]byte(item.State))
}
