package tracker

import "github.com/google/uuid"

//go:generate counterfeiter . IDGenerator

type IDGenerator interface {
	Generate() string
}

type uuidGenerator struct{}

func NewGenerator() *uuidGenerator {
	return &uuidGenerator{}
}

func (u *uuidGenerator) Generate() string {
	return uuid.NewString()
}
