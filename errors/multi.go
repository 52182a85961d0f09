package errors

import (
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If given error implements unpacker interface, it is flattened. All
// contained errors are extracted and directly appended to the result.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if u, ok := e.(unpacker); ok {
			res = append(res, u.Unpack()...)
			continue
		}
		res = append(res, e)
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

type multiErr []error

// Unpack returns all contained errors.
func (m multiErr) Unpack() []error {
	return m
}

func (m multiErr) Error() string {
	msgs := make([]string, len(m))
	for i, e := range m {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Code returns the code of the first error. All errors grouped together
// are equally important so there is no better choice.
func (m multiErr) Code() uint32 {
	return code(m[0])
}

// unpacker is implemented by errors that are a group of errors.
type unpacker interface {
	Unpack() []error
}
