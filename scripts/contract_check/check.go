package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"reflect"
	"strings"
	"time"
)

// target is one request of a contract scenario. Targets run in file order so
// later ones can reuse ids captured from earlier responses via {{name}}.
type target struct {
	Name         string          `json:"name"`
	Method       string          `json:"method"`
	Path         string          `json:"path"`
	Body         json.RawMessage `json:"body,omitempty"`
	ExpectStatus int             `json:"expectStatus"`
	ExpectBody   json.RawMessage `json:"expectBody,omitempty"`
	Capture      string          `json:"capture,omitempty"`
	Critical     bool            `json:"critical"`
}

type config struct {
	Targets []target `json:"targets"`
}

type result struct {
	Target      target
	Status      int
	StatusMatch bool
	BodyMatch   bool
	Error       error
	Duration    time.Duration
}

func (r result) failed() bool {
	return r.Error != nil || !r.StatusMatch || !r.BodyMatch
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

type runner struct {
	client *http.Client
	base   string
	token  string
	vars   map[string]string
}

func newRunner(client *http.Client, base, token string) *runner {
	return &runner{client: client, base: strings.TrimRight(base, "/"), token: token, vars: map[string]string{}}
}

func (r *runner) Run(targets []target) []result {
	results := make([]result, 0, len(targets))
	for _, t := range targets {
		results = append(results, r.check(t))
	}
	return results
}

func (r *runner) check(tgt target) result {
	res := result{Target: tgt}
	resp, dur, err := r.perform(tgt)
	res.Duration = dur
	if err != nil {
		res.Error = err
		return res
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	res.StatusMatch = tgt.ExpectStatus == 0 || tgt.ExpectStatus == resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		res.Error = fmt.Errorf("read body: %w", err)
		return res
	}

	res.BodyMatch = true
	if len(tgt.ExpectBody) > 0 {
		res.BodyMatch = containsJSON(body, tgt.ExpectBody)
	}
	if tgt.Capture != "" {
		if id, ok := extractID(body); ok {
			r.vars[tgt.Capture] = id
		}
	}
	return res
}

func (r *runner) perform(tgt target) (*http.Response, time.Duration, error) {
	if r.client == nil {
		return nil, 0, errors.New("nil client")
	}
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := r.expand(tgt.Path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if len(tgt.Body) > 0 {
		body = bytes.NewReader([]byte(r.expand(string(tgt.Body))))
	}
	req, err := http.NewRequest(method, r.base+path, body)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	return resp, time.Since(start), nil
}

func (r *runner) expand(s string) string {
	for name, value := range r.vars {
		s = strings.ReplaceAll(s, "{{"+name+"}}", value)
	}
	return s
}

// containsJSON reports whether every key of want appears in got with an equal
// value. Arrays must match element by element.
func containsJSON(got, want []byte) bool {
	var g, w interface{}
	if err := json.Unmarshal(got, &g); err != nil {
		return false
	}
	if err := json.Unmarshal(want, &w); err != nil {
		return false
	}
	return subset(g, w)
}

func subset(got, want interface{}) bool {
	switch w := want.(type) {
	case map[string]interface{}:
		g, ok := got.(map[string]interface{})
		if !ok {
			return false
		}
		for key, wv := range w {
			gv, ok := g[key]
			if !ok || !subset(gv, wv) {
				return false
			}
		}
		return true
	case []interface{}:
		g, ok := got.([]interface{})
		if !ok || len(g) != len(w) {
			return false
		}
		for i := range w {
			if !subset(g[i], w[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(got, want)
	}
}

func extractID(body []byte) (string, bool) {
	var payload struct {
		ID json.Number `json:"id"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.ID == "" {
		return "", false
	}
	return payload.ID.String(), true
}

func tally(results []result) (breaking, optional int) {
	for _, res := range results {
		if !res.failed() {
			continue
		}
		if res.Target.Critical || res.Error != nil {
			breaking++
		} else {
			optional++
		}
	}
	return breaking, optional
}

func printReport(results []result) {
	fmt.Println("Contract Check Report")
	fmt.Println("=====================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if res.failed() {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s %s %s\n", status, res.Target.Method, res.Target.Path, res.Target.Name)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  Status: %d, expected %d (%s)\n", res.Status, res.Target.ExpectStatus, res.Duration)
		fmt.Printf("  Status match: %t | Body match: %t | Critical: %t\n", res.StatusMatch, res.BodyMatch, res.Target.Critical)
	}
}
