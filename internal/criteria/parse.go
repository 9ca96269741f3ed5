package criteria

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dukerupert/quests/internal/filter"
	"github.com/dukerupert/quests/internal/model"
)

// ErrInvalidFilter wraps every client input error found while parsing
// field.operator=value query parameters.
var ErrInvalidFilter = errors.New("invalid filter")

type field struct {
	set   func(op string, vals []string) error
	check func() error
}

// ParseQuest builds a QuestCriteria from query parameters. Keys that are
// not field.operator pairs of a filterable field are ignored.
func ParseQuest(q url.Values) (QuestCriteria, error) {
	var c QuestCriteria
	fields := map[string]field{
		"id":              rangeField(&c.ID, parseInt64),
		"title":           stringField(&c.Title),
		"description":     stringField(&c.Description),
		"reward":          stringField(&c.Reward),
		"expiresOn":       rangeField(&c.ExpiresOn, model.ParseDate),
		"reviewStartDate": rangeField(&c.ReviewStartDate, model.ParseDate),
		"maxApplicants":   rangeField(&c.MaxApplicants, parseInt),
		"assignee":        stringField(&c.Assignee),
		"status":          enumField(&c.Status, model.ParseQuestStatus),
		"privateNotes":    stringField(&c.PrivateNotes),
		"applicantId":     rangeField(&c.ApplicantID, parseInt64),
	}
	if err := parse(q, fields, &c.Distinct); err != nil {
		return QuestCriteria{}, err
	}
	return c, nil
}

// ParseApplicant builds an ApplicantCriteria from query parameters.
func ParseApplicant(q url.Values) (ApplicantCriteria, error) {
	var c ApplicantCriteria
	fields := map[string]field{
		"id":            rangeField(&c.ID, parseInt64),
		"discordHandle": stringField(&c.DiscordHandle),
		"questId":       rangeField(&c.QuestID, parseInt64),
	}
	if err := parse(q, fields, &c.Distinct); err != nil {
		return ApplicantCriteria{}, err
	}
	return c, nil
}

func parse(q url.Values, fields map[string]field, distinct **bool) error {
	for key, vals := range q {
		if key == "distinct" {
			b, err := single(vals, strconv.ParseBool)
			if err != nil {
				return fmt.Errorf("%w: distinct: %v", ErrInvalidFilter, err)
			}
			*distinct = &b
			continue
		}

		name, op, ok := strings.Cut(key, ".")
		if !ok {
			continue
		}
		f, ok := fields[name]
		if !ok {
			continue
		}
		if err := f.set(op, vals); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidFilter, key, err)
		}
	}

	for name, f := range fields {
		if err := f.check(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidFilter, name, err)
		}
	}
	return nil
}

var errSpecifiedConflict = errors.New("specified=false cannot be combined with other operators")

func rangeField[T any](dst **filter.Range[T], conv func(string) (T, error)) field {
	return field{
		set: func(op string, vals []string) error {
			if *dst == nil {
				*dst = &filter.Range[T]{}
			}
			f := *dst
			switch op {
			case "greaterThan":
				return setSingle(&f.GreaterThan, vals, conv)
			case "greaterThanOrEqual":
				return setSingle(&f.GreaterThanOrEqual, vals, conv)
			case "lessThan":
				return setSingle(&f.LessThan, vals, conv)
			case "lessThanOrEqual":
				return setSingle(&f.LessThanOrEqual, vals, conv)
			}
			return setBase(&f.Filter, op, vals, conv)
		},
		check: func() error {
			if *dst == nil {
				return nil
			}
			rest := **dst
			rest.Specified = nil
			return checkSpecified((*dst).Specified, rest.IsEmpty())
		},
	}
}

func stringField(dst **filter.String) field {
	return field{
		set: func(op string, vals []string) error {
			if *dst == nil {
				*dst = &filter.String{}
			}
			f := *dst
			switch op {
			case "contains":
				return setSingle(&f.Contains, vals, parseString)
			case "doesNotContain":
				return setSingle(&f.DoesNotContain, vals, parseString)
			}
			return setBase(&f.Filter, op, vals, parseString)
		},
		check: func() error {
			if *dst == nil {
				return nil
			}
			rest := **dst
			rest.Specified = nil
			return checkSpecified((*dst).Specified, rest.IsEmpty())
		},
	}
}

func enumField[T any](dst **filter.Filter[T], conv func(string) (T, error)) field {
	return field{
		set: func(op string, vals []string) error {
			if *dst == nil {
				*dst = &filter.Filter[T]{}
			}
			return setBase(*dst, op, vals, conv)
		},
		check: func() error {
			if *dst == nil {
				return nil
			}
			rest := **dst
			rest.Specified = nil
			return checkSpecified((*dst).Specified, rest.IsEmpty())
		},
	}
}

// setBase handles the operators every field kind shares. Unknown operators
// are ignored.
func setBase[T any](f *filter.Filter[T], op string, vals []string, conv func(string) (T, error)) error {
	switch op {
	case "equals":
		return setSingle(&f.Equals, vals, conv)
	case "notEquals":
		return setSingle(&f.NotEquals, vals, conv)
	case "in":
		return setList(&f.In, vals, conv)
	case "notIn":
		return setList(&f.NotIn, vals, conv)
	case "specified":
		return setSingle(&f.Specified, vals, strconv.ParseBool)
	}
	return nil
}

func setSingle[T any](dst **T, vals []string, conv func(string) (T, error)) error {
	v, err := single(vals, conv)
	if err != nil {
		return err
	}
	*dst = &v
	return nil
}

func single[T any](vals []string, conv func(string) (T, error)) (T, error) {
	var zero T
	if len(vals) != 1 {
		return zero, fmt.Errorf("expected one value, got %d", len(vals))
	}
	return conv(vals[0])
}

// setList accepts repeated keys as well as comma separated values.
func setList[T any](dst *[]T, vals []string, conv func(string) (T, error)) error {
	var out []T
	for _, raw := range vals {
		if raw == "" {
			return errors.New("empty value set")
		}
		for _, part := range strings.Split(raw, ",") {
			v, err := conv(part)
			if err != nil {
				return err
			}
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return errors.New("empty value set")
	}
	*dst = out
	return nil
}

func checkSpecified(specified *bool, restEmpty bool) error {
	if specified != nil && !*specified && !restEmpty {
		return errSpecifiedConflict
	}
	return nil
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func parseString(s string) (string, error) {
	return s, nil
}
