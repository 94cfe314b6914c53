package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSeeder(cluster *fakeCluster, sessions *fakeSessions, rf int) *Seeder {
	logger := zap.NewNop()
	return NewSeeder(logger,
		NewProvisioner(logger, cluster),
		NewPublisher(logger, sessions, stubPersons{}),
		TopicSettings{BaseName: "orders", Partitions: 2, ReplicationFactor: rf},
	)
}

func TestSeeder_Run_TwiceAgainstSameCluster(t *testing.T) {
	ctx := context.Background()
	cluster := newFakeCluster()

	_, err := newTestSeeder(cluster, &fakeSessions{}, 3).Run(ctx)
	require.NoError(t, err)
	_, err = newTestSeeder(cluster, &fakeSessions{}, 3).Run(ctx)
	require.NoError(t, err)

	assert.Len(t, cluster.topics, TopicCount)
	assert.Equal(t, 1, cluster.createsFor("orders0"))
	assert.Equal(t, 1, cluster.createsFor("orders24"))
	assert.Equal(t, 2, cluster.topics["orders0"].Partitions)
	assert.Equal(t, 3, cluster.topics["orders0"].ReplicationFactor)
	assert.Empty(t, cluster.topics["orders0"].ExtraConfig)
}

func TestSeeder_Run_ReplicationFactorOneSetsMinISR(t *testing.T) {
	cluster := newFakeCluster()

	_, err := newTestSeeder(cluster, &fakeSessions{}, 1).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, cluster.creates, TopicCount)
	for _, c := range cluster.creates {
		assert.Equal(t, "1", c.ExtraConfig[MinInSyncReplicasConfig], c.Name)
	}
}

func TestSeeder_Run_ProvisioningFailurePreventsPublishing(t *testing.T) {
	cluster := newFakeCluster()
	cluster.createErr["orders24"] = errors.New("authorization failed")
	sessions := &fakeSessions{}

	_, err := newTestSeeder(cluster, sessions, 3).Run(context.Background())

	var perr *ProvisioningError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "orders24", perr.Topic)
	assert.Empty(t, sessions.opened)
}

func TestSeeder_Run_PublishFailuresKeepSuccess(t *testing.T) {
	sessions := &fakeSessions{deliver: func(Record) error { return errors.New("timeout") }}

	report, err := newTestSeeder(newFakeCluster(), sessions, 3).Run(context.Background())
	require.NoError(t, err)

	submitted, succeeded, failed := report.Totals()
	assert.Equal(t, int64(24*1000+10), submitted)
	assert.Zero(t, succeeded)
	assert.Equal(t, submitted, failed)
}
