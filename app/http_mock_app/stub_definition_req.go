package http_mock_app

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"regexp"
	"time"

	model "go_stub_server/internal/domain/model/stub_rule"

	"github.com/go-playground/validator/v10"
)

// Response types accepted in stub definitions.
const (
	ResponseTypeJSON            = "json"
	ResponseTypeData            = "data"
	ResponseTypeError           = "error"
	ResponseTypeConnectionError = "connectionError"
)

// FixtureLoader resolves fixture references in stub definitions.
type FixtureLoader interface {
	Fixture(ctx context.Context, name string) (any, error)
}

var validate = validator.New()

// StubDefinitionDTO is the wire and file form of a stub rule.
type StubDefinitionDTO struct {
	URL           string             `json:"url" yaml:"url" validate:"required"`
	Method        string             `json:"method,omitempty" yaml:"method,omitempty" validate:"omitempty,oneof=GET POST PUT DELETE PATCH HEAD ANY get post put delete patch head any"`
	Query         map[string]string  `json:"query,omitempty" yaml:"query,omitempty"`
	ExcludedQuery map[string]*string `json:"excludedQuery,omitempty" yaml:"excludedQuery,omitempty"`
	Headers       map[string]string  `json:"headers,omitempty" yaml:"headers,omitempty"`
	BodyJSON      map[string]any     `json:"bodyJson,omitempty" yaml:"bodyJson,omitempty"`
	BodyRegex     *string            `json:"bodyRegex,omitempty" yaml:"bodyRegex,omitempty"`
	Delay         float64            `json:"delay,omitempty" yaml:"delay,omitempty" validate:"min=0"` // seconds
	Response      ResponseDTO        `json:"response" yaml:"response"`
}

type ResponseDTO struct {
	Type         string `json:"type" yaml:"type" validate:"required,oneof=json data error connectionError"`
	JSON         any    `json:"json,omitempty" yaml:"json,omitempty"`
	Data         string `json:"data,omitempty" yaml:"data,omitempty"`
	DataBase64   string `json:"dataBase64,omitempty" yaml:"dataBase64,omitempty" validate:"omitempty,base64"`
	ContentType  string `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Code         int    `json:"code,omitempty" yaml:"code,omitempty"`
	ReasonPhrase string `json:"reasonPhrase,omitempty" yaml:"reasonPhrase,omitempty"`
	Fixture      string `json:"fixture,omitempty" yaml:"fixture,omitempty"` // loads JSON from a fixture
}

// Validate performs validation on StubDefinitionDTO
func (req *StubDefinitionDTO) Validate() error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("invalid stub definition: %w", err)
	}

	resp := req.Response
	switch resp.Type {
	case ResponseTypeJSON:
		if resp.JSON != nil && resp.Fixture != "" {
			return fmt.Errorf("json response takes either json or fixture, not both")
		}
	case ResponseTypeData:
		if resp.Data != "" && resp.DataBase64 != "" {
			return fmt.Errorf("data response takes either data or dataBase64, not both")
		}
	case ResponseTypeError:
		if resp.Code < 100 || resp.Code > 599 {
			return fmt.Errorf("error response needs a status code between 100 and 599, got %d", resp.Code)
		}
		if resp.JSON != nil && resp.Fixture != "" {
			return fmt.Errorf("error response takes either json or fixture, not both")
		}
	}

	if req.BodyRegex != nil {
		if _, err := regexp.Compile(*req.BodyRegex); err != nil {
			return fmt.Errorf("invalid bodyRegex: %w", err)
		}
	}
	return nil
}

// ConvertToStubRule converts StubDefinitionDTO to a StubRule. fixtures may be
// nil when no definition references a fixture.
func (dto *StubDefinitionDTO) ConvertToStubRule(ctx context.Context, fixtures FixtureLoader) (model.StubRule, error) {
	pattern := model.RequestPattern{
		URL:           dto.URL,
		Method:        model.MethodANY,
		Query:         dto.Query,
		ExcludedQuery: dto.ExcludedQuery,
		Headers:       dto.Headers,
		BodyRegex:     dto.BodyRegex,
	}
	if dto.Method != "" {
		pattern.Method = model.ParseMethod(dto.Method)
	}
	if dto.BodyJSON != nil {
		pattern.BodyJSON = dto.BodyJSON
	}

	response, err := dto.Response.convert(ctx, fixtures)
	if err != nil {
		return model.StubRule{}, err
	}

	delay := time.Duration(math.Round(dto.Delay * float64(time.Second)))
	return model.NewStub(pattern, response).Modify(model.WithDelay(delay)), nil
}

func (r ResponseDTO) convert(ctx context.Context, fixtures FixtureLoader) (model.ResponseSpec, error) {
	switch r.Type {
	case ResponseTypeJSON:
		json, err := r.payload(ctx, fixtures)
		if err != nil {
			return nil, err
		}
		if json == nil {
			json = map[string]any{}
		}
		return model.JSONBody(json), nil
	case ResponseTypeData:
		data := []byte(r.Data)
		if r.DataBase64 != "" {
			decoded, err := base64.StdEncoding.DecodeString(r.DataBase64)
			if err != nil {
				return nil, fmt.Errorf("failed to decode dataBase64: %w", err)
			}
			data = decoded
		}
		return model.DataBody(data, r.ContentType), nil
	case ResponseTypeError:
		json, err := r.payload(ctx, fixtures)
		if err != nil {
			return nil, err
		}
		return model.ErrorWithJSON(json, r.Code, r.ReasonPhrase), nil
	case ResponseTypeConnectionError:
		return model.ConnectionFailure{}, nil
	default:
		return nil, fmt.Errorf("unknown response type %q", r.Type)
	}
}

func (r ResponseDTO) payload(ctx context.Context, fixtures FixtureLoader) (any, error) {
	if r.Fixture == "" {
		return r.JSON, nil
	}
	if fixtures == nil {
		return nil, fmt.Errorf("fixture %q referenced but no fixture source configured", r.Fixture)
	}
	return fixtures.Fixture(ctx, r.Fixture)
}

// NewStubDefinitionDTO renders a rule back into its definition form.
func NewStubDefinitionDTO(rule model.StubRule) StubDefinitionDTO {
	p := rule.Pattern
	dto := StubDefinitionDTO{
		URL:           p.URL,
		Method:        p.EffectiveMethod().String(),
		Query:         p.Query,
		ExcludedQuery: p.ExcludedQuery,
		Headers:       p.Headers,
		BodyRegex:     p.BodyRegex,
		Delay:         rule.Delay.Seconds(),
		Response:      NewResponseDTO(rule.Response),
	}
	if body, err := model.NormalizeJSON(p.BodyJSON); err == nil {
		dto.BodyJSON, _ = body.(map[string]any)
	}
	return dto
}

func NewResponseDTO(response model.ResponseSpec) ResponseDTO {
	switch r := response.(type) {
	case model.JSONResponse:
		return ResponseDTO{Type: ResponseTypeJSON, JSON: r.JSON}
	case model.DataResponse:
		return ResponseDTO{
			Type:        ResponseTypeData,
			DataBase64:  base64.StdEncoding.EncodeToString(r.Data),
			ContentType: r.ContentType,
		}
	case model.ErrorResponse:
		return ResponseDTO{Type: ResponseTypeError, JSON: r.JSON, Code: r.Code, ReasonPhrase: r.ReasonPhrase}
	case model.ConnectionFailure:
		return ResponseDTO{Type: ResponseTypeConnectionError}
	default:
		return ResponseDTO{}
	}
}

// HistoryEntryDTO is one history entry as returned by the admin API.
type HistoryEntryDTO struct {
	ID          string                 `json:"id"`
	RecordedAt  time.Time              `json:"recordedAt"`
	Request     *model.CapturedRequest `json:"request"`
	Response    ResponseDTO            `json:"response"`
	RuleMatched bool                   `json:"ruleMatched"`
}

func NewHistoryEntryDTO(entry model.HistoryEntry) HistoryEntryDTO {
	return HistoryEntryDTO{
		ID:          entry.ID,
		RecordedAt:  entry.RecordedAt,
		Request:     entry.Request,
		Response:    NewResponseDTO(entry.Response),
		RuleMatched: entry.RuleMatched,
	}
}
