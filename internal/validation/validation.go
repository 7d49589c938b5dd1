// Package validation checks request payloads before they reach the services.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"scholarsync/internal/models"

	"github.com/go-playground/validator/v10"
)

// Section and quiz limits.
const (
	MinQuizAnswers = 2
	MaxQuizAnswers = 10
)

// Validator wraps go-playground/validator with the upload host allow-list.
type Validator struct {
	validate *validator.Validate
	hosts    []string
}

// New builds a Validator. An empty host list accepts any http(s) URL for
// upload fields.
func New(uploadHosts []string) *Validator {
	v := &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
	for _, h := range uploadHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			v.hosts = append(v.hosts, h)
		}
	}

	v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.validate.RegisterValidation("upload_url", func(fl validator.FieldLevel) bool {
		return v.UploadURL(fl.Field().String()) == nil
	})
	_ = v.validate.RegisterValidation("web_url", func(fl validator.FieldLevel) bool {
		_, err := webURL(fl.Field().String())
		return err == nil
	})
	v.validate.RegisterStructValidation(v.sectionRules, models.NoteSectionPayload{})
	return v
}

// Struct validates s and reports the first failing field.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	return &FieldError{Field: fieldPath(fieldErrs[0].Namespace()), Rule: fieldErrs[0].Tag(), Param: fieldErrs[0].Param()}
}

// UploadURL accepts http(s) URLs whose host is on the allow-list.
func (v *Validator) UploadURL(raw string) error {
	u, err := webURL(raw)
	if err != nil {
		return err
	}
	if len(v.hosts) == 0 {
		return nil
	}
	host := strings.ToLower(u.Hostname())
	for _, allowed := range v.hosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return nil
		}
	}
	return fmt.Errorf("host %q is not an allowed upload host", host)
}

func webURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New("url must use http or https")
	}
	if u.Hostname() == "" {
		return nil, errors.New("url must name a host")
	}
	return u, nil
}

func (v *Validator) sectionRules(sl validator.StructLevel) {
	section := sl.Current().Interface().(models.NoteSectionPayload)

	if section.Type.HasFile() {
		if section.File == "" {
			sl.ReportError(section.File, "file", "File", "required", "")
		} else if v.UploadURL(section.File) != nil {
			sl.ReportError(section.File, "file", "File", "upload_url", "")
		}
	}
	if section.Type == models.SectionQuiz {
		n := len(section.QuizAnswers)
		if n < MinQuizAnswers || n > MaxQuizAnswers {
			sl.ReportError(section.QuizAnswers, "quiz_answers", "QuizAnswers", "quiz_answers", "")
		}
	} else if len(section.QuizAnswers) > 0 {
		sl.ReportError(section.QuizAnswers, "quiz_answers", "QuizAnswers", "excluded", "")
	}
}

// HasCorrectAnswer reports whether a quiz section marks at least one answer
// as correct.
func HasCorrectAnswer(section models.NoteSectionPayload) bool {
	for _, a := range section.QuizAnswers {
		if a.IsCorrect {
			return true
		}
	}
	return false
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
