package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/whatkey/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo keeps items in memory, keyed by PK.
type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items map[string]map[string]*dynamodb.AttributeValue
	table string
	err   error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]*dynamodb.AttributeValue)}
}

func (f *fakeDynamo) GetItemWithContext(ctx aws.Context, in *dynamodb.GetItemInput, opts ...request.Option) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.table = aws.StringValue(in.TableName)
	return &dynamodb.GetItemOutput{Item: f.items[aws.StringValue(in.Key["PK"].S)]}, nil
}

func (f *fakeDynamo) PutItemWithContext(ctx aws.Context, in *dynamodb.PutItemInput, opts ...request.Option) (*dynamodb.PutItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.table = aws.StringValue(in.TableName)
	f.items[aws.StringValue(in.Item["PK"].S)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func TestDigest(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		Digest(nil))
	assert.NotEqual(t, Digest([]byte("a")), Digest([]byte("b")))
}

func TestPutThenGet(t *testing.T) {
	client := newFakeDynamo()
	store := NewDynamoStoreWithClient(client, "detections")
	store.now = func() time.Time { return time.Unix(1700000000, 0) }
	ctx := context.Background()

	res := model.DetectResponse{
		Found: true,
		Guesses: []model.GuessResponse{
			{Root: "A", Quality: "Minor", Label: "A Minor"},
			{Root: "C", Quality: "Major", Label: "C Major"},
		},
	}
	require.NoError(t, store.Put(ctx, "abc", res))
	assert.Equal(t, "detections", client.table)
	assert.Equal(t, "1700000000", aws.StringValue(client.items["abc"]["CreatedAt"].N))

	got, ok, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, res, got)
}

func TestFallbackRoundTrip(t *testing.T) {
	store := NewDynamoStoreWithClient(newFakeDynamo(), "detections")
	ctx := context.Background()

	res := model.DetectResponse{Guesses: []model.GuessResponse{}, ProbableRoot: "C#"}
	require.NoError(t, store.Put(ctx, "abc", res))

	got, ok, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, res, got)
}

func TestGetMiss(t *testing.T) {
	store := NewDynamoStoreWithClient(newFakeDynamo(), "detections")

	_, ok, err := store.Get(context.Background(), "missing")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestClientErrors(t *testing.T) {
	client := newFakeDynamo()
	client.err = errors.New("throttled")
	store := NewDynamoStoreWithClient(client, "detections")
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "abc")
	assert.False(t, ok)
	assert.ErrorContains(t, err, "throttled")

	err = store.Put(ctx, "abc", model.DetectResponse{})
	assert.ErrorIs(t, err, client.err)
}
