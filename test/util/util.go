// Package util provides helper functions shared across integration tests.
//
// WaitForHealthy polls an HTTP health endpoint until it answers 200.
//
// StartMosquitto launches a disposable Mosquitto broker in a Docker container
// for MQTT-based tests. It returns the broker URL and a cleanup function.
//
// WaitForMetric polls a Prometheus metrics endpoint until the desired metric
// appears in the output.
package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// Default timeouts for helper operations
	HealthTimeout         = 5 * time.Second
	MosquittoReadyTimeout = 5 * time.Second
	MetricTimeout         = 5 * time.Second

	pollInterval          = 50 * time.Millisecond
	defaultMosquittoImage = "eclipse-mosquitto:2.0"
)

// WaitForHealthy polls healthURL until it responds with HTTP 200 or the
// context is done.
func WaitForHealthy(ctx context.Context, healthURL string) error {
	err := poll(ctx, healthURL, func(status int, _ []byte) bool { return status == http.StatusOK })
	if err != nil {
		return fmt.Errorf("server not ready: %w", err)
	}
	return nil
}

// WaitForMetric polls the given metrics URL until the provided substring is
// found in the output or the context is done.
func WaitForMetric(ctx context.Context, metricsURL, substr string) error {
	err := poll(ctx, metricsURL, func(_ int, body []byte) bool { return strings.Contains(string(body), substr) })
	if err != nil {
		return fmt.Errorf("metric %q not found: %w", substr, err)
	}
	return nil
}

// poll issues GET requests against url every pollInterval until done
// accepts a response.
func poll(ctx context.Context, url string, done func(status int, body []byte) bool) error {
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		if resp, err := http.DefaultClient.Do(req); err == nil {
			body, rerr := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if rerr == nil && done(resp.StatusCode, body) {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// StartMosquitto launches a temporary Mosquitto broker inside a Docker
// container and returns its broker URL along with a cleanup function.
// PITWALL_MOSQUITTO_IMAGE overrides the image.
func StartMosquitto(ctx context.Context) (string, func(), error) {
	conf := "listener 1883\nallow_anonymous true\npersistence false\nlog_dest stdout\n"
	image := os.Getenv("PITWALL_MOSQUITTO_IMAGE")
	if image == "" {
		image = defaultMosquittoImage
	}

	dir, err := os.MkdirTemp("", "pitwall-mosquitto")
	if err != nil {
		return "", nil, err
	}
	path := filepath.Join(dir, "mosquitto.conf")
	if err := os.WriteFile(path, []byte(conf), 0644); err != nil {
		_ = os.RemoveAll(dir)
		return "", nil, err
	}

	req := tc.ContainerRequest{
		Image:        image,
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
		Files: []tc.ContainerFile{
			{
				HostFilePath:      path,
				ContainerFilePath: "/mosquitto/config/mosquitto.conf",
				FileMode:          0644,
			},
		},
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", nil, err
	}

	cleanup := func() {
		_ = cont.Terminate(context.Background())
		_ = os.RemoveAll(dir)
	}

	host, err := cont.Host(ctx)
	if err != nil {
		cleanup()
		return "", nil, err
	}
	port, err := cont.MappedPort(ctx, "1883")
	if err != nil {
		cleanup()
		return "", nil, err
	}
	broker := fmt.Sprintf("tcp://%s:%s", host, port.Port())

	waitCtx, cancel := context.WithTimeout(ctx, MosquittoReadyTimeout)
	defer cancel()
	if err := waitForMQTTReady(waitCtx, broker); err != nil {
		cleanup()
		return "", nil, err
	}

	return broker, cleanup, nil
}

func waitForMQTTReady(ctx context.Context, broker string) error {
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("pitwall-probe")
	for {
		cli := paho.NewClient(opts)
		token := cli.Connect()
		token.Wait()
		if token.Error() == nil {
			cli.Disconnect(100)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}
