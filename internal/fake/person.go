package fake

import (
	"github.com/brianvoe/gofakeit/v7"

	"github.com/danielpetisme/kafka-docker-playground/internal/service"
)

// PersonSource генерирует синтетических людей через gofakeit.
// Один и тот же seed даёт одну и ту же последовательность; seed 0 - случайный.
type PersonSource struct {
	faker *gofakeit.Faker
}

// NewPersonSource создаёт новый экземпляр PersonSource
func NewPersonSource(seed uint64) *PersonSource {
	return &PersonSource{faker: gofakeit.New(seed)}
}

// Person возвращает следующего синтетического человека
func (s *PersonSource) Person() service.Person {
	return service.Person{
		FirstName: s.faker.FirstName(),
		LastName:  s.faker.LastName(),
		Address:   s.faker.Street(),
	}
}
