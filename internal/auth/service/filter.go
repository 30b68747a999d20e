package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aryamansrivastava/account-service/internal/auth/domain"
	autherror "github.com/aryamansrivastava/account-service/internal/errors"
)

const filterDayLayout = "2006-01-02"

type clauseParser func(raw json.RawMessage) (domain.FilterClause, error)

var clauseParsers = map[domain.FilterKind]clauseParser{
	domain.FilterName:      textClause(domain.FilterName),
	domain.FilterEmail:     textClause(domain.FilterEmail),
	domain.FilterDate:      dayClause(domain.FilterDate),
	domain.FilterLastLogin: dayClause(domain.FilterLastLogin),
	domain.FilterDevice: func(raw json.RawMessage) (domain.FilterClause, error) {
		clause, err := textClause(domain.FilterDevice)(raw)
		if err != nil {
			return clause, err
		}
		switch clause.Text {
		case domain.DeviceMobile, domain.DeviceTablet, domain.DeviceDesktop:
			return clause, nil
		}
		return clause, fmt.Errorf("device must be one of Mobile, Tablet, Desktop")
	},
}

func textClause(kind domain.FilterKind) clauseParser {
	return func(raw json.RawMessage) (domain.FilterClause, error) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return domain.FilterClause{}, fmt.Errorf("%s must be a string", kind)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return domain.FilterClause{}, fmt.Errorf("%s must not be empty", kind)
		}
		return domain.FilterClause{Kind: kind, Text: s}, nil
	}
}

func dayClause(kind domain.FilterKind) clauseParser {
	return func(raw json.RawMessage) (domain.FilterClause, error) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return domain.FilterClause{}, fmt.Errorf("%s must be a date string", kind)
		}
		day, err := time.Parse(filterDayLayout, s)
		if err != nil {
			return domain.FilterClause{}, fmt.Errorf("%s must use the YYYY-MM-DD format", kind)
		}
		return domain.FilterClause{Kind: kind, Day: day}, nil
	}
}

// ParseUserFilter decodes the JSON object passed as ?filter=. Unknown keys are
// rejected rather than ignored.
func ParseUserFilter(raw string) ([]domain.FilterClause, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, autherror.NewBadRequest("invalid filter: must be a JSON object")
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := make([]domain.FilterClause, 0, len(keys))
	for _, k := range keys {
		parse, ok := clauseParsers[domain.FilterKind(k)]
		if !ok {
			return nil, autherror.NewBadRequest(fmt.Sprintf("invalid filter: unknown key %q", k))
		}
		clause, err := parse(entries[k])
		if err != nil {
			return nil, autherror.NewBadRequest("invalid filter: " + err.Error())
		}
		clauses = append(clauses, clause)
	}
	return clauses, nil
}
