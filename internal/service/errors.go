package service

import (
	"errors"
	"fmt"
)

var (
	// ErrTopicAlreadyExists возвращается TopicAdmin, когда брокер ответил TOPIC_ALREADY_EXISTS
	ErrTopicAlreadyExists = errors.New("topic already exists")
	// ErrSessionClosed возвращается при Submit в закрытую сессию
	ErrSessionClosed = errors.New("publishing session is closed")
)

// ProvisioningError - фатальная ошибка provisioning конкретного топика
type ProvisioningError struct {
	Topic string
	Err   error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provision topic %s: %v", e.Topic, e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}
