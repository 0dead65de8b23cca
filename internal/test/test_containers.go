package test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/go-resty/resty/v2"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/tidwall/gjson"
)

const (
	specmaticImage      = "znsio/specmatic"
	specmaticKafkaImage = "znsio/specmatic-kafka-trial"
	stubPort            = "9000"
)

func specmaticMounts(pwd string) testcontainers.ContainerMounts {
	return testcontainers.Mounts(
		testcontainers.BindMount(filepath.Join(pwd, "specmatic.yaml"), "/usr/src/app/specmatic.yaml"),
		testcontainers.BindMount(filepath.Join(pwd, "contracts"), "/usr/src/app/contracts"),
	)
}

// StartBackendStub runs a Specmatic HTTP stub for the products API.
func StartBackendStub(t *testing.T, env *TestEnvironment) (testcontainers.Container, string, error) {
	pwd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("error getting current directory: %w", err)
	}

	port, err := nat.NewPort("tcp", stubPort)
	if err != nil {
		return nil, "", fmt.Errorf("invalid port number: %w", err)
	}

	req := testcontainers.ContainerRequest{
		Image:        specmaticImage,
		ExposedPorts: []string{string(port)},
		Networks:     []string{env.CatalogTestNetwork.Name},
		Cmd:          []string{"stub", "--port=" + stubPort},
		Mounts:       specmaticMounts(pwd),
		WaitingFor:   wait.ForLog("Stub server is running"),
	}

	t.Log("Backend stub container created")

	backendC, err := testcontainers.GenericContainer(env.Ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", err
	}

	host, err := backendC.Host(env.Ctx)
	if err != nil {
		return backendC, "", fmt.Errorf("error getting host: %w", err)
	}
	env.BackendServiceHost = host

	mappedPort, err := backendC.MappedPort(env.Ctx, port)
	if err != nil {
		return backendC, "", err
	}

	return backendC, mappedPort.Port(), nil
}

// StartKafkaMock runs the Specmatic Kafka mock. The broker port is bound 1:1
// on the host so the advertised listener matches what the test process dials.
func StartKafkaMock(t *testing.T, env *TestEnvironment) (testcontainers.Container, error) {
	pwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("error getting current directory: %w", err)
	}

	brokerPort := env.Config.KafkaPort
	apiPort, err := nat.NewPort("tcp", env.KafkaAPIPort)
	if err != nil {
		return nil, fmt.Errorf("invalid port number: %w", err)
	}

	req := testcontainers.ContainerRequest{
		Image:        specmaticKafkaImage,
		ExposedPorts: []string{brokerPort + ":" + brokerPort + "/tcp", string(apiPort)},
		Networks:     []string{env.CatalogTestNetwork.Name},
		Cmd:          []string{"--config=/usr/src/app/specmatic.yaml", "--mock-server-api-port=" + apiPort.Port()},
		Mounts:       specmaticMounts(pwd),
		Env: map[string]string{
			"KAFKA_EXTERNAL_HOST": env.Config.KafkaHost,
			"KAFKA_EXTERNAL_PORT": brokerPort,
		},
		WaitingFor: wait.ForLog("Listening on topics: (" + env.Config.KafkaTopic + ")").WithStartupTimeout(2 * time.Minute),
	}

	kafkaC, err := testcontainers.GenericContainer(env.Ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, err
	}

	mappedAPIPort, err := kafkaC.MappedPort(env.Ctx, apiPort)
	if err != nil {
		return kafkaC, fmt.Errorf("error getting API server port: %w", err)
	}
	env.KafkaDynamicAPIPort = mappedAPIPort.Port()

	kafkaAPIHost, err := kafkaC.Host(env.Ctx)
	if err != nil {
		return kafkaC, fmt.Errorf("error getting host IP: %w", err)
	}
	env.KafkaAPIHost = kafkaAPIHost

	if err := SetKafkaExpectations(env); err != nil {
		return kafkaC, fmt.Errorf("failed to set Kafka expectations: %w", err)
	}

	t.Log("Kafka mock container started")
	return kafkaC, nil
}

func SetKafkaExpectations(env *TestEnvironment) error {
	client := resty.New()

	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody([]map[string]interface{}{
			{"topic": env.Config.KafkaTopic, "count": env.ExpectedMessageCount},
		}).
		Post(fmt.Sprintf("http://%s:%s/_expectations", env.KafkaAPIHost, env.KafkaDynamicAPIPort))
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("setting expectations returned %s", resp.Status())
	}
	return nil
}

func VerifyKafkaExpectations(env *TestEnvironment) error {
	client := resty.New()

	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		Post(fmt.Sprintf("http://%s:%s/_expectations/verifications", env.KafkaAPIHost, env.KafkaDynamicAPIPort))
	if err != nil {
		return err
	}

	if !gjson.GetBytes(resp.Body(), "success").Bool() {
		return fmt.Errorf("verification failed: %v", gjson.GetBytes(resp.Body(), "errors").Array())
	}

	return nil
}
