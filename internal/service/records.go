package service

// Person синтетические данные о человеке
type Person struct {
	FirstName string
	LastName  string
	Address   string
}

// RecordKey ключ записи: монотонный id внутри топика
type RecordKey struct {
	ID int64
}

// RecordValue значение записи
type RecordValue struct {
	Count     int64
	FirstName string
	LastName  string
	Address   string
}

// Record пара ключ/значение, отправляемая в сессию
type Record struct {
	Key   RecordKey
	Value RecordValue
}

// PublishOutcome результат публикации одной записи.
// Err == nil - запись подтверждена брокером (Partition/Offset заполнены).
type PublishOutcome struct {
	Topic     string
	Key       RecordKey
	Partition int
	Offset    int64
	Err       error
}

// NextRecord строит запись для id: count повторяет id, строки берутся из source
func NextRecord(id int64, source PersonSource) Record {
	p := source.Person()
	return Record{
		Key: RecordKey{ID: id},
		Value: RecordValue{
			Count:     id,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Address:   p.Address,
		},
	}
}
