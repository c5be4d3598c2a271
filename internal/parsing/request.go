package parsing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-ranker/internal/schemas"
	"github.com/jonathan/resume-ranker/internal/types"
)

// ParseRankRequest decodes a raw JSON payload into a RankRequest. The payload
// is checked against the rank_request schema before decoding and the decoded
// struct is validated afterwards, so the ranking core only ever sees requests
// with every required field present.
func ParseRankRequest(data []byte) (*types.RankRequest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ParseError{Message: "request body is empty"}
	}

	if err := schemas.ValidateRankRequest(data); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			return nil, &ParseError{Message: "request does not match schema", Cause: err}
		}
		return nil, &ParseError{Message: "malformed JSON", Cause: err}
	}

	var req types.RankRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, &ParseError{Message: "malformed JSON", Cause: err}
	}
	if req.RequiredSkills == nil {
		req.RequiredSkills = []string{}
	}

	if err := req.Validate(); err != nil {
		return nil, &ParseError{Message: describeValidation(err), Cause: err}
	}

	return &req, nil
}

// describeValidation turns validator errors into a short field list.
func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return "invalid request"
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return "invalid request: " + strings.Join(parts, ", ")
}
