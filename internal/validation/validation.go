// Package validation checks REST input before it reaches the service layer.
// Request bodies are checked against JSON Schemas; dates, ids and paging
// parameters get additional format checks.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Shivanand-hulikatti/event-manager/internal/model"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// Error is a rejected input. Message is safe to return to clients.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...any) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

const createEventSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["title", "date"],
	"properties": {
		"id": false,
		"title": {"type": "string", "minLength": 1},
		"date": {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"category": {"type": "string"}
	},
	"additionalProperties": false
}`

const updateEventSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"id": false,
		"title": {"type": "string", "minLength": 1},
		"date": {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"category": {"type": "string"}
	},
	"additionalProperties": false
}`

var (
	createSchema = mustCompile("create_event", createEventSchema)
	updateSchema = mustCompile("update_event", updateEventSchema)
)

func mustCompile(name, schema string) *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	schemaURL := fmt.Sprintf("https://eventmanager.schemas.local/%s.schema.json", name)
	if err := c.AddResource(schemaURL, strings.NewReader(schema)); err != nil {
		panic(fmt.Sprintf("load %s schema: %v", name, err))
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		panic(fmt.Sprintf("compile %s schema: %v", name, err))
	}
	return compiled
}

// CreateEvent decodes and checks a POST /events body.
func CreateEvent(body io.Reader) (model.CreateEventRequest, error) {
	var req model.CreateEventRequest
	raw, err := decodeAgainst(body, createSchema)
	if err != nil {
		return req, err
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, invalid("", "invalid request body")
	}
	if !ISODate(req.Date) {
		return req, invalid("date", "must be a valid ISO 8601 string")
	}
	return req, nil
}

// UpdateEvent decodes and checks a PUT /events/{id} body.
func UpdateEvent(body io.Reader) (model.UpdateEventRequest, error) {
	var req model.UpdateEventRequest
	raw, err := decodeAgainst(body, updateSchema)
	if err != nil {
		return req, err
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, invalid("", "invalid request body")
	}
	if req.Date != nil && !ISODate(*req.Date) {
		return req, invalid("date", "must be a valid ISO 8601 string")
	}
	return req, nil
}

// EventID accepts only the canonical dashed UUID form.
func EventID(id string) error {
	if len(id) != 36 {
		return invalid("id", "must be a valid UUID")
	}
	if _, err := uuid.Parse(id); err != nil {
		return invalid("id", "must be a valid UUID")
	}
	return nil
}

// ListOptions reads limit, skip and select from a query string.
func ListOptions(q url.Values) (model.ListOptions, error) {
	opts := model.ListOptions{Limit: model.DefaultListLimit}

	var err error
	if v := q.Get("limit"); v != "" {
		if opts.Limit, err = nonNegative(v); err != nil {
			return opts, invalid("limit", "must be a non-negative integer")
		}
	}
	if v := q.Get("skip"); v != "" {
		if opts.Skip, err = nonNegative(v); err != nil {
			return opts, invalid("skip", "must be a non-negative integer")
		}
	}
	if v := q.Get("select"); v != "" {
		opts.Select = []string{}
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				opts.Select = append(opts.Select, f)
			}
		}
	}
	return opts, nil
}

func nonNegative(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("negative")
	}
	return n, nil
}

// ISO 8601 grammar pieces. Calendar, week and ordinal dates are accepted
// in basic or extended form, optionally followed by a time of day and a
// zone designator. Day-of-month is not checked against the month length.
const (
	isoYear    = `[+-]?\d{4}`
	isoMonth   = `(?:0[1-9]|1[0-2])`
	isoDay     = `(?:0[1-9]|[12]\d|3[01])`
	isoWeek    = `W(?:[0-4]\d|5[0-3])(?:-?[1-7])?`
	isoOrdinal = `(?:00[1-9]|0[1-9]\d|[12]\d{2}|3(?:[0-5]\d|6[1-6]))`
	isoHour    = `(?:[01]\d|2[0-3])`
	isoMinute  = `[0-5]\d`
	isoFrac    = `(?:[.,]\d+)?`
	isoZone    = `(?:[zZ]|[+-]` + isoHour + `:?(?:` + isoMinute + `)?)?`

	isoClock = `(?:` +
		isoHour + `:` + isoMinute + `(?:[.,]\d+|:` + isoMinute + isoFrac + `)?` +
		`|` + isoHour + `(?:` + isoMinute + `)?` + isoFrac + `(?:` + isoMinute + isoFrac + `)?` +
		`|24:?00` + isoFrac + `(?:` + isoMinute + isoFrac + `)?` +
		`)?` + isoZone

	isoDate = `-(?:` + isoMonth + `(?:-` + isoDay + `)?|` + isoWeek + `|` + isoOrdinal + `)` +
		`|(?:` + isoMonth + isoDay + `|` + isoWeek + `|` + isoOrdinal + `)`
)

// A basic-format year-month (YYYYMM) is only taken when a time follows.
var isoPattern = regexp.MustCompile(`^` + isoYear +
	`(?:(?:` + isoDate + `)(?:[T\s]` + isoClock + `)?` +
	`|` + isoMonth + `T` + isoClock + `)?$`)

// ISODate reports whether s is an ISO 8601 date or date-time. Reduced
// precision (year, year-month), basic format, week and ordinal dates,
// a space separator and hour-only or colon-less offsets are all accepted.
func ISODate(s string) bool {
	return isoPattern.MatchString(s)
}

func decodeAgainst(body io.Reader, schema *jsonschema.Schema) (json.RawMessage, error) {
	raw, err := io.ReadAll(io.LimitReader(body, MaxBodyBytes+1))
	if err != nil {
		return nil, invalid("", "invalid request body")
	}
	if len(raw) > MaxBodyBytes {
		return nil, invalid("", "request body too large")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, invalid("", "invalid request body: %v", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, describe(err)
	}
	return raw, nil
}

// describe turns the deepest schema failure into a client-facing message.
func describe(err error) *Error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return invalid("", "invalid request body")
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	field := strings.TrimPrefix(ve.InstanceLocation, "/")
	return &Error{Field: field, Message: ve.Message}
}
