package test

import (
	"context"

	"github.com/testcontainers/testcontainers-go"
	"github.com/znsio/specmatic-product-catalog-go/internal/config"
)

type TestEnvironment struct {
	Ctx                       context.Context
	CatalogTestNetwork        *testcontainers.DockerNetwork
	BackendServiceContainer   testcontainers.Container
	BackendServiceHost        string
	BackendServiceDynamicPort string
	KafkaServiceContainer     testcontainers.Container
	KafkaDynamicAPIPort       string
	KafkaAPIHost              string
	KafkaAPIPort              string
	ExpectedMessageCount      int
	Config                    *config.Config
}

// BackendURL points at the stubbed backend through its mapped port.
func (env *TestEnvironment) BackendURL() string {
	return "http://" + env.BackendServiceHost + ":" + env.BackendServiceDynamicPort
}
