// Package cerr builds errors that carry structured context fields.
//
// Fields are attached at the point an error is wrapped and travel with the
// error until it is logged:
//
//	return cerr.Field("job_id", jobID).Wrap(err).Error("Failed to run spleeter")
package cerr

import (
	"fmt"
	"sort"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
)

type F map[string]any

type Context struct {
	fields F
}

func Field(key string, value any) Context {
	return Context{}.Field(key, value)
}

func Fields(fields F) Context {
	return Context{}.Fields(fields)
}

func Wrap(err error) Wrapper {
	return Context{}.Wrap(err)
}

func Error(msg string) error {
	return Context{}.error(msg)
}

func (c Context) Field(key string, value any) Context {
	return c.Fields(F{key: value})
}

func (c Context) Fields(fields F) Context {
	merged := make(F, len(c.fields)+len(fields))
	for k, v := range c.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	return Context{fields: merged}
}

func (c Context) Wrap(err error) Wrapper {
	return Wrapper{ctx: c, err: err}
}

func (c Context) Error(msg string) error {
	return c.error(msg)
}

func (c Context) error(msg string) error {
	return c.attach(errors.NewWithDepth(2, msg))
}

func (c Context) attach(err error) error {
	if len(c.fields) == 0 {
		return err
	}

	return &fieldsError{cause: err, fields: c.fields}
}

type Wrapper struct {
	ctx Context
	err error
}

func (w Wrapper) Error(msg string) error {
	if w.err == nil {
		return w.ctx.error(msg)
	}

	return errors.WrapWithDepth(1, w.ctx.attach(w.err), msg)
}

// fieldsError is transparent: it never changes the message of its cause.
type fieldsError struct {
	cause  error
	fields F
}

func (f *fieldsError) Error() string { return f.cause.Error() }
func (f *fieldsError) Cause() error  { return f.cause }
func (f *fieldsError) Unwrap() error { return f.cause }

func (f *fieldsError) Format(s fmt.State, verb rune) { errors.FormatError(f, s, verb) }

func (f *fieldsError) FormatError(p errors.Printer) error {
	if p.Detail() {
		keys := make([]string, 0, len(f.fields))
		for k := range f.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			p.Printf("%s: %v\n", k, f.fields[k])
		}
	}

	return f.cause
}

// ExtractFields collects every field along the error chain. Outer fields win
// over inner ones with the same key.
func ExtractFields(err error) log.Fields {
	fields := log.Fields{}

	for err != nil {
		if fe, ok := err.(*fieldsError); ok {
			for k, v := range fe.fields {
				if _, exists := fields[k]; !exists {
					fields[k] = v
				}
			}
		}
		err = errors.UnwrapOnce(err)
	}

	return fields
}

func Log(err error) {
	if err == nil {
		return
	}

	log.WithFields(ExtractFields(err)).
		WithField("stack", fmt.Sprintf("%+v", err)).
		WithError(err).
		Error("Error occurred")
}
