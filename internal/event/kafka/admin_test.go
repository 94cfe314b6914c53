package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/danielpetisme/kafka-docker-playground/internal/service"
)

// MockClusterClient реализует clusterClient для тестов
type MockClusterClient struct {
	mock.Mock
}

func (m *MockClusterClient) Metadata(ctx context.Context, req *kafka.MetadataRequest) (*kafka.MetadataResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*kafka.MetadataResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClusterClient) CreateTopics(ctx context.Context, req *kafka.CreateTopicsRequest) (*kafka.CreateTopicsResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*kafka.CreateTopicsResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestAdmin_ListTopics(t *testing.T) {
	client := new(MockClusterClient)
	client.On("Metadata", mock.Anything, mock.Anything).Return(&kafka.MetadataResponse{
		Topics: []kafka.Topic{{Name: "sample0"}, {Name: "_schemas", Internal: false}},
	}, nil).Once()

	names, err := newAdmin(zap.NewNop(), client, time.Second).ListTopics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"sample0", "_schemas"}, names)
	client.AssertExpectations(t)
}

func TestAdmin_ListTopics_Error(t *testing.T) {
	client := new(MockClusterClient)
	client.On("Metadata", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: connection refused")).Once()

	_, err := newAdmin(zap.NewNop(), client, time.Second).ListTopics(context.Background())

	assert.ErrorContains(t, err, "connection refused")
}

func TestAdmin_CreateTopic_SendsSpec(t *testing.T) {
	client := new(MockClusterClient)
	spec := service.BuildTopicSpecs("orders", 3, 1)[0]

	client.On("CreateTopics", mock.Anything, mock.MatchedBy(func(req *kafka.CreateTopicsRequest) bool {
		if len(req.Topics) != 1 {
			return false
		}
		tc := req.Topics[0]
		return tc.Topic == "orders0" &&
			tc.NumPartitions == 3 &&
			tc.ReplicationFactor == 1 &&
			len(tc.ConfigEntries) == 1 &&
			tc.ConfigEntries[0] == kafka.ConfigEntry{ConfigName: "min.insync.replicas", ConfigValue: "1"}
	})).Return(&kafka.CreateTopicsResponse{Errors: map[string]error{"orders0": nil}}, nil).Once()

	err := newAdmin(zap.NewNop(), client, time.Second).CreateTopic(context.Background(), spec)

	assert.NoError(t, err)
	client.AssertExpectations(t)
}

func TestAdmin_CreateTopic_AlreadyExistsMapsToSentinel(t *testing.T) {
	client := new(MockClusterClient)
	client.On("CreateTopics", mock.Anything, mock.Anything).Return(&kafka.CreateTopicsResponse{
		Errors: map[string]error{"orders0": kafka.TopicAlreadyExists},
	}, nil).Once()

	err := newAdmin(zap.NewNop(), client, time.Second).CreateTopic(context.Background(), service.BuildTopicSpecs("orders", 2, 3)[0])

	assert.ErrorIs(t, err, service.ErrTopicAlreadyExists)
}

func TestAdmin_CreateTopic_OtherBrokerError(t *testing.T) {
	client := new(MockClusterClient)
	client.On("CreateTopics", mock.Anything, mock.Anything).Return(&kafka.CreateTopicsResponse{
		Errors: map[string]error{"orders0": kafka.InvalidReplicationFactor},
	}, nil).Once()

	err := newAdmin(zap.NewNop(), client, time.Second).CreateTopic(context.Background(), service.BuildTopicSpecs("orders", 2, 3)[0])

	require.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrTopicAlreadyExists)
	assert.ErrorIs(t, err, kafka.InvalidReplicationFactor)
}
