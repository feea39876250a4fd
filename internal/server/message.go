package server

import (
	"encoding/json"
	"time"

	"github.com/lox/shoecount/internal/advisor"
	"github.com/lox/shoecount/internal/command"
	"github.com/lox/shoecount/internal/deck"
	"github.com/lox/shoecount/internal/game"
	"github.com/lox/shoecount/internal/ledger"
	"github.com/lox/shoecount/internal/simulator"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type CommandData struct {
	Line string `json:"line"`
}

// Server → Client Messages

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ResultData struct {
	Verb    string      `json:"verb"`
	Message string      `json:"message"`
	Lines   []string    `json:"lines,omitempty"`
	Record  *RecordData `json:"record,omitempty"`
	Mutated bool        `json:"mutated"`
}

type HandData struct {
	Cards     []string `json:"cards"`
	Total     string   `json:"total"`
	Wager     int      `json:"wager"`
	Doubled   bool     `json:"doubled"`
	Stood     bool     `json:"stood"`
	Finished  bool     `json:"finished"`
	FromSplit bool     `json:"fromSplit"`
}

type StateData struct {
	State          string         `json:"state"`
	Counts         map[string]int `json:"counts"`
	Remaining      int            `json:"remaining"`
	Seen           int            `json:"seen"`
	Running        int            `json:"running"`
	Decks          int            `json:"decks"`
	DecksRemaining float64        `json:"decksRemaining"`
	TrueCount      float64        `json:"trueCount"`
	Bankroll       int            `json:"bankroll"`
	SuggestedBet   int            `json:"suggestedBet"`
	SixCardCharlie bool           `json:"sixCardCharlie"`
	Hands          []HandData     `json:"hands,omitempty"`
	Dealer         []string       `json:"dealer,omitempty"`
	Active         int            `json:"active"`
	SplitUsed      bool           `json:"splitUsed"`
	Table          []string       `json:"table,omitempty"`
	Burn           []string       `json:"burn,omitempty"`
	Rounds         int            `json:"rounds"`
}

type SimulationData struct {
	Action     string  `json:"action"`
	Iterations int     `json:"iterations"`
	WinRate    float64 `json:"winRate"`
	PushRate   float64 `json:"pushRate"`
	LossRate   float64 `json:"lossRate"`
	MeanEV     float64 `json:"meanEv"`
}

type AdviceData struct {
	Generation   uint64           `json:"generation"`
	Hand         int              `json:"hand"`
	Available    bool             `json:"available"`
	Action       string           `json:"action,omitempty"`
	Reason       string           `json:"reason"`
	Result       *SimulationData  `json:"result,omitempty"`
	Alternatives []SimulationData `json:"alternatives,omitempty"`
	ElapsedMS    int64            `json:"elapsedMs"`
}

type DetailData struct {
	Hand    int    `json:"hand"`
	Outcome string `json:"outcome"`
	Label   string `json:"label"`
	Net     int    `json:"net"`
}

type RecordData struct {
	ID            string       `json:"id"`
	Hands         [][]string   `json:"hands"`
	Dealer        []string     `json:"dealer"`
	Details       []DetailData `json:"details"`
	Net           int          `json:"net"`
	BankrollAfter int          `json:"bankrollAfter"`
	TrueCount     float64      `json:"trueCount"`
	ResolvedAt    time.Time    `json:"resolvedAt"`
}

type EventData struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Helper functions to convert between internal types and message types

func ranks(cards []deck.Rank) []string {
	if len(cards) == 0 {
		return nil
	}
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

func StateFromSnapshot(s game.Snapshot) StateData {
	counts := make(map[string]int, deck.NumRanks)
	for i, r := range deck.Ranks {
		counts[r.String()] = s.Counts[i]
	}

	data := StateData{
		State:          s.State.String(),
		Counts:         counts,
		Remaining:      s.Remaining,
		Seen:           s.Seen,
		Running:        s.Running,
		Decks:          s.Decks,
		DecksRemaining: s.DecksRemaining,
		TrueCount:      s.TrueCount,
		Bankroll:       s.Bankroll,
		SuggestedBet:   s.SuggestedBet,
		SixCardCharlie: s.SixCardCharlie,
		Table:          ranks(s.Table),
		Burn:           ranks(s.Burn),
		Rounds:         s.Rounds,
	}
	if r := s.Round; r != nil {
		data.Dealer = ranks(r.Dealer)
		data.Active = r.Active
		data.SplitUsed = r.SplitUsed
		for _, h := range r.Hands {
			data.Hands = append(data.Hands, HandData{
				Cards:     ranks(h.Cards),
				Total:     command.Total(h.Cards),
				Wager:     h.Wager,
				Doubled:   h.Doubled,
				Stood:     h.Stood,
				Finished:  h.Finished,
				FromSplit: h.FromSplit,
			})
		}
	}
	return data
}

func simulationFromResult(r simulator.Result) SimulationData {
	return SimulationData{
		Action:     r.Action.String(),
		Iterations: r.Iterations,
		WinRate:    r.WinRate,
		PushRate:   r.PushRate,
		LossRate:   r.LossRate,
		MeanEV:     r.MeanEV,
	}
}

func AdviceFromAdvisor(a advisor.Advice) AdviceData {
	rec := a.Recommendation
	data := AdviceData{
		Generation: a.Generation,
		Hand:       a.Hand,
		Available:  rec.Available,
		Reason:     rec.Reason,
		ElapsedMS:  a.Elapsed.Milliseconds(),
	}
	if !rec.Available {
		return data
	}
	data.Action = rec.Action.String()
	if rec.Result.Iterations > 0 {
		res := simulationFromResult(rec.Result)
		data.Result = &res
	}
	for _, alt := range rec.Alternatives {
		data.Alternatives = append(data.Alternatives, simulationFromResult(alt))
	}
	return data
}

func RecordFromLedger(r ledger.Record) RecordData {
	data := RecordData{
		ID:            r.ID,
		Dealer:        ranks(r.Dealer),
		Net:           r.Net,
		BankrollAfter: r.BankrollAfter,
		TrueCount:     r.TrueCount,
		ResolvedAt:    r.ResolvedAt,
	}
	for _, h := range r.Hands {
		data.Hands = append(data.Hands, ranks(h.Cards))
	}
	for _, d := range r.Details {
		data.Details = append(data.Details, DetailData{
			Hand:    d.Hand,
			Outcome: string(d.Outcome),
			Label:   d.Outcome.Label(),
			Net:     d.Net,
		})
	}
	return data
}

func ResultFromCommand(res command.Result) ResultData {
	data := ResultData{
		Verb:    string(res.Verb),
		Message: res.Message,
		Lines:   res.Lines,
		Mutated: res.Mutated,
	}
	if res.Record != nil {
		rec := RecordFromLedger(*res.Record)
		data.Record = &rec
	}
	return data
}
