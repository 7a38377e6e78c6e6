package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case Session:
		o.printSession(v)
	case Accepted:
		o.printAccepted(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Session response type
type Session struct {
	Phase          string `json:"phase"`
	Ready          bool   `json:"ready"`
	Role           string `json:"role"`
	Connected      bool   `json:"connected"`
	JoinCode       string `json:"join_code"`
	ConnectedPeers int    `json:"connected_peers"`
}

// Accepted response type
type Accepted struct {
	Accepted bool `json:"accepted"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%s)\n", p.DisplayName, p.ID)
}

func (o *Output) printSession(s Session) {
	fmt.Printf("Phase: %s\n", s.Phase)
	fmt.Printf("Ready: %t\n", s.Ready)
	fmt.Printf("Role: %s\n", s.Role)
	fmt.Printf("Connected: %t\n", s.Connected)
	if s.JoinCode != "" {
		fmt.Printf("Join Code: %s\n", s.JoinCode)
	}
	fmt.Printf("Connected Peers: %d\n", s.ConnectedPeers)
}

func (o *Output) printAccepted(a Accepted) {
	if a.Accepted {
		fmt.Println("Accepted")
	} else {
		fmt.Println("Rejected")
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
