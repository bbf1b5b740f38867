package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Pawissanan/Get-YouTube-View/domain/model"
)

const (
	// DefaultMaxVideos is the per-channel cap used when none is given.
	DefaultMaxVideos = 100
	// MaxMaxVideos is the largest per-channel cap accepted.
	MaxMaxVideos = 500

	// RequiredFieldsMessage is returned when a mandatory input is missing.
	RequiredFieldsMessage = "Please complete all required fields."
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ExtractionRequest carries the raw user inputs of one run.
type ExtractionRequest struct {
	RunID string `json:"run_id,omitempty" form:"run_id" url:"run_id,omitempty"`
	// APIKey is never encoded into URLs.
	APIKey string `json:"api_key" form:"api_key" url:"-" validate:"required"`
	// ChannelIDs is newline separated, one channel id per line.
	ChannelIDs     string `json:"channel_ids" form:"channel_ids" url:"channel_ids" validate:"required"`
	StartMonthYear string `json:"start_month_year" form:"start_month_year" url:"start_month_year" validate:"required"`
	EndMonthYear   string `json:"end_month_year" form:"end_month_year" url:"end_month_year" validate:"required"`
	Keyword        string `json:"keyword,omitempty" form:"keyword" url:"keyword,omitempty"`
	// Hashtags is comma separated, e.g. "#AI, #tech".
	Hashtags           string `json:"hashtags,omitempty" form:"hashtags" url:"hashtags,omitempty"`
	IncludeDescription *bool  `json:"include_description,omitempty" form:"include_description" url:"include_description,omitempty"`
	MaxVideos          int    `json:"max_videos,omitempty" form:"max_videos" url:"max_videos,omitempty" validate:"omitempty,min=1,max=500"`

	// tokenCredential is set when an OAuth token can stand in for the API key.
	tokenCredential bool
}

// ValidationError reports unusable user input.
type ValidationError struct {
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(e.Fields, ", "))
}

// ApplyDefaults fills the credential and cap when the caller left them empty.
// hasToken reports whether a configured OAuth token may be used when no API
// key is given.
func (r *ExtractionRequest) ApplyDefaults(defaultAPIKey string, hasToken bool) {
	r.APIKey = strings.TrimSpace(r.APIKey)
	if r.APIKey == "" {
		r.APIKey = defaultAPIKey
	}
	r.tokenCredential = hasToken
	if r.MaxVideos == 0 {
		r.MaxVideos = DefaultMaxVideos
	}
	r.StartMonthYear = strings.TrimSpace(r.StartMonthYear)
	r.EndMonthYear = strings.TrimSpace(r.EndMonthYear)
}

// Validate checks the required inputs and the cap range.
func (r *ExtractionRequest) Validate() error {
	if len(r.Channels()) == 0 {
		r.ChannelIDs = ""
	}
	var err error
	if r.APIKey == "" && r.tokenCredential {
		err = validate.StructExcept(r, "APIKey")
	} else {
		err = validate.Struct(r)
	}
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	missing := make([]string, 0, len(verrs))
	invalid := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		} else {
			invalid = append(invalid, fe.Field())
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Message: RequiredFieldsMessage, Fields: missing}
	}
	return &ValidationError{
		Message: fmt.Sprintf("max_videos must be between 1 and %d", MaxMaxVideos),
		Fields:  invalid,
	}
}

// Channels returns the trimmed, non-empty channel ids in input order.
func (r *ExtractionRequest) Channels() []string {
	return ParseChannelIDs(r.ChannelIDs)
}

// Criteria validates the request and converts it into filter criteria.
func (r *ExtractionRequest) Criteria() (model.FilterCriteria, error) {
	if err := r.Validate(); err != nil {
		return model.FilterCriteria{}, err
	}
	start, err := model.ParseMonthYear(r.StartMonthYear)
	if err != nil {
		return model.FilterCriteria{}, &ValidationError{Message: err.Error(), Fields: []string{"StartMonthYear"}}
	}
	end, err := model.ParseMonthYear(r.EndMonthYear)
	if err != nil {
		return model.FilterCriteria{}, &ValidationError{Message: err.Error(), Fields: []string{"EndMonthYear"}}
	}
	includeDescription := true
	if r.IncludeDescription != nil {
		includeDescription = *r.IncludeDescription
	}
	return model.FilterCriteria{
		Window:             model.DateWindow{Start: start, End: end},
		Keyword:            strings.ToLower(r.Keyword),
		Hashtags:           ParseHashtags(r.Hashtags),
		IncludeDescription: includeDescription,
		MaxVideos:          r.MaxVideos,
	}, nil
}

// ExportFileName is the download name for the run, e.g. youtube_data_012023_062024.xlsx.
func (r *ExtractionRequest) ExportFileName(ext string) string {
	return fmt.Sprintf("youtube_data_%s_%s.%s", r.StartMonthYear, r.EndMonthYear, ext)
}

// ParseChannelIDs splits newline separated input into channel ids.
func ParseChannelIDs(input string) []string {
	var ids []string
	for _, line := range strings.Split(input, "\n") {
		if id := strings.TrimSpace(line); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// ParseHashtags splits comma separated input into lower-cased hashtag tokens.
func ParseHashtags(input string) []string {
	var tags []string
	for _, tag := range strings.Split(strings.ToLower(input), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
