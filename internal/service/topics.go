package service

import "strconv"

const (
	// TopicCount количество топиков в семействе <base>0..<base>24
	TopicCount = 25
	// LowTrafficIndex индекс топика с уменьшенным объёмом записей
	LowTrafficIndex = 10
	// LowTrafficRecords количество записей для LowTrafficIndex
	LowTrafficRecords = 10
	// DefaultRecords количество записей для остальных топиков
	DefaultRecords = 1000

	// MinInSyncReplicasConfig настройка топика, выставляемая при replication factor < 3
	MinInSyncReplicasConfig = "min.insync.replicas"
	minReplicationForISR    = 3
)

// TopicSpec описывает один топик семейства
type TopicSpec struct {
	Index             int
	Name              string
	Partitions        int
	ReplicationFactor int
	ExtraConfig       map[string]string
}

// BuildTopicSpecs строит TopicCount спецификаций с именами <base><i>
func BuildTopicSpecs(base string, partitions, replicationFactor int) []TopicSpec {
	specs := make([]TopicSpec, 0, TopicCount)
	for i := 0; i < TopicCount; i++ {
		extra := map[string]string{}
		if replicationFactor < minReplicationForISR {
			extra[MinInSyncReplicasConfig] = "1"
		}
		specs = append(specs, TopicSpec{
			Index:             i,
			Name:              base + strconv.Itoa(i),
			Partitions:        partitions,
			ReplicationFactor: replicationFactor,
			ExtraConfig:       extra,
		})
	}
	return specs
}

// RecordCount возвращает количество записей для топика с индексом index
func RecordCount(index int) int64 {
	if index == LowTrafficIndex {
		return LowTrafficRecords
	}
	return DefaultRecords
}
