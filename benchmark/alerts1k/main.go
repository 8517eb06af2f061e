package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	glucovaGrpc "liyu1981.xyz/glucova-service/pkg/grpc"
)

var maxDevices int = 1000
var alertsPerDevice int = 3
var httpHostPort string = "127.0.0.1:8000"
var grpcHostPort string = "127.0.0.1:8001"

var grpcClient glucovaGrpc.DeviceAlertServiceClient

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
var rndMu sync.Mutex

var levels = []string{"low", "medium", "high", "critical"}

var created, limited, failed atomic.Int64

func main() {
	resp, err := http.Get(fmt.Sprintf("http://%s/health", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	conn, err := grpc.NewClient(grpcHostPort, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal("Failed to connect to gRPC server:", err)
	}
	defer conn.Close()
	grpcClient = glucovaGrpc.NewDeviceAlertServiceClient(conn)

	fmt.Printf("gRPC client connected\n")

	token := signUpAndIn()

	var startTime time.Time
	var usedTime time.Duration

	deviceIDs := make([]string, maxDevices)
	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := range maxDevices {
		wg.Add(1)
		go func() {
			defer wg.Done()
			deviceIDs[i] = registerDevice(token)
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"registered %v devices: used time=%v seconds, throughput=%v action/second\n",
		maxDevices, usedTime.Seconds(), float64(maxDevices)/usedTime.Seconds(),
	)

	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := range maxDevices {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range alertsPerDevice {
				reportAlert(deviceIDs[i])
			}
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	total := maxDevices * alertsPerDevice
	fmt.Printf(
		"reported %v alerts: used time=%v seconds, throughput=%v action/second\n",
		total, usedTime.Seconds(), float64(total)/usedTime.Seconds(),
	)
	fmt.Printf("created=%v rate_limited=%v failed=%v\n", created.Load(), limited.Load(), failed.Load())
}

func flipCoin() bool {
	rndMu.Lock()
	defer rndMu.Unlock()
	return rnd.Int31n(100000)%2 == 0
}

func pickLevel() string {
	rndMu.Lock()
	defer rndMu.Unlock()
	return levels[rnd.Intn(len(levels))]
}

func postJSON(path, token string, payload any) (*http.Response, error) {
	jsonData, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("http://%s%s", httpHostPort, path), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return http.DefaultClient.Do(req)
}

func signUpAndIn() string {
	creds := map[string]string{
		"email":    uuid.NewString() + "@bench.example.com",
		"password": "bench-password",
	}

	resp, err := postJSON("/api/v1/users/sign-up", "", creds)
	if err != nil || resp.StatusCode != http.StatusCreated {
		log.Fatalf("sign up failed: %v", err)
	}
	resp.Body.Close()

	resp, err = postJSON("/api/v1/users/sign-in", "", creds)
	if err != nil || resp.StatusCode != http.StatusOK {
		log.Fatalf("sign in failed: %v", err)
	}
	defer resp.Body.Close()

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		log.Fatalf("sign in response: %v", err)
	}
	return token.AccessToken
}

func registerDevice(token string) string {
	resp, err := postJSON("/api/v1/devices", token, map[string]any{})
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	var device struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&device); err != nil || device.ID == "" {
		panic(fmt.Sprintf("register device: status=%v err=%v", resp.StatusCode, err))
	}
	return device.ID
}

func reportAlert(deviceID string) {
	payload := map[string]any{
		"device_id": deviceID,
		"level":     pickLevel(),
	}

	if flipCoin() {
		resp, err := postJSON("/api/v1/alerts", "", payload)
		if err != nil {
			failed.Add(1)
			return
		}
		resp.Body.Close()
		switch resp.StatusCode {
		case http.StatusCreated:
			created.Add(1)
		case http.StatusTooManyRequests:
			limited.Add(1)
		default:
			failed.Add(1)
		}
		return
	}

	req, _ := structpb.NewStruct(payload)
	_, err := grpcClient.CreateAlert(context.Background(), req)
	switch status.Code(err) {
	case codes.OK:
		created.Add(1)
	case codes.ResourceExhausted:
		limited.Add(1)
	default:
		failed.Add(1)
	}
}
