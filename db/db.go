package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/whatkey/model"
)

// Store caches detection responses by the digest of the uploaded audio.
type Store interface {
	Get(ctx context.Context, digest string) (model.DetectResponse, bool, error)
	Put(ctx context.Context, digest string, res model.DetectResponse) error
}

func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

type detectionItem struct {
	PK           string                `dynamodbav:"PK"`
	Found        bool                  `dynamodbav:"Found"`
	Guesses      []model.GuessResponse `dynamodbav:"Guesses"`
	ProbableRoot string                `dynamodbav:"ProbableRoot,omitempty"`
	CreatedAt    int64                 `dynamodbav:"CreatedAt"`
}

type DynamoStore struct {
	client dynamodbiface.DynamoDBAPI
	table  string
	now    func() time.Time
}

func NewDynamoStore(endpoint, region, table string) (*DynamoStore, error) {
	session, err := session.NewSession(&aws.Config{
		Region:   aws.String(region),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, fmt.Errorf("creating dynamodb session: %w", err)
	}
	return NewDynamoStoreWithClient(dynamodb.New(session), table), nil
}

func NewDynamoStoreWithClient(client dynamodbiface.DynamoDBAPI, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table, now: time.Now}
}

func (s *DynamoStore) Get(ctx context.Context, digest string) (model.DetectResponse, bool, error) {
	out, err := s.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(digest)},
		},
	})
	if err != nil {
		return model.DetectResponse{}, false, fmt.Errorf("dynamodb get %s: %w", digest, err)
	}
	if len(out.Item) == 0 {
		return model.DetectResponse{}, false, nil
	}

	var item detectionItem
	if err := dynamodbattribute.UnmarshalMap(out.Item, &item); err != nil {
		return model.DetectResponse{}, false, fmt.Errorf("decoding detection %s: %w", digest, err)
	}
	res := model.DetectResponse{
		Found:        item.Found,
		Guesses:      item.Guesses,
		ProbableRoot: item.ProbableRoot,
	}
	if res.Guesses == nil {
		res.Guesses = []model.GuessResponse{}
	}
	return res, true, nil
}

func (s *DynamoStore) Put(ctx context.Context, digest string, res model.DetectResponse) error {
	av, err := dynamodbattribute.MarshalMap(detectionItem{
		PK:           digest,
		Found:        res.Found,
		Guesses:      res.Guesses,
		ProbableRoot: res.ProbableRoot,
		CreatedAt:    s.now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("encoding detection %s: %w", digest, err)
	}
	_, err = s.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("dynamodb put %s: %w", digest, err)
	}
	return nil
}
