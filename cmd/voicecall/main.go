package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/quickfixlabs/voicedemo/pkg/Logger"
	"github.com/quickfixlabs/voicedemo/pkg/voice"
)

// Terminal client for the demo: starts a session against the API, joins the
// voice room, and drives mute/hang-up from stdin.
func main() {
	apiURL := flag.String("api", "http://localhost:8000", "demo API base URL")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	logger := Logger.New(*debug)

	sess, err := startDemo(*apiURL)
	if err != nil {
		log.Fatalf("start-demo failed: %v", err)
	}
	fmt.Printf("Persona:\n%s\n\nJoining room %s\n", sess.Persona, sess.RoomName)

	machine := voice.NewMachine(
		voice.NewSampleMicrophone(),
		voice.NewLiveKitTransport(logger),
		voice.NewTrackSink(logger),
		func() { endDemo(*apiURL, sess.SessionID) },
		logger,
	)
	// The connection must come down with the process, prompt or no prompt.
	defer machine.Close()

	if err := machine.Start(context.Background(), voice.ConnectParams{
		URL:      sess.LiveKitURL,
		RoomName: sess.RoomName,
		Token:    sess.Token,
	}); err != nil {
		log.Fatalf("voice connect failed: %v", err)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	fmt.Println("connected. 'm' toggles mute, 'q' hangs up.")
	for {
		select {
		case <-sigs:
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			switch line {
			case "m":
				if err := machine.ToggleMute(); err != nil {
					fmt.Println(err)
					continue
				}
				fmt.Printf("muted: %v\n", machine.Muted())
			case "q":
				machine.HangUp()
				return
			}
		}
	}
}

type demoSession struct {
	SessionID  string `json:"session_id"`
	Persona    string `json:"persona"`
	RoomName   string `json:"room_name"`
	Token      string `json:"token"`
	LiveKitURL string `json:"livekit_url"`
}

func startDemo(apiURL string) (*demoSession, error) {
	resp, err := http.Post(apiURL+"/api/start-demo", "application/json", bytes.NewReader([]byte("{}")))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	var sess demoSession
	if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func endDemo(apiURL, sessionID string) {
	body, _ := json.Marshal(map[string]string{"session_id": sessionID})
	resp, err := http.Post(apiURL+"/api/end-demo", "application/json", bytes.NewReader(body))
	if err != nil {
		return
	}
	resp.Body.Close()
}
