package core

import (
	"strconv"

	et "github.com/fra-scarfato/MiniLang-sub001/core/errorkind"
	sv "github.com/fra-scarfato/MiniLang-sub001/core/severity"
)

type Position struct {
	Line   int
	Column int
}

func (this Position) String() string {
	return strconv.Itoa(this.Line) + ":" + strconv.Itoa(this.Column)
}

type Range struct {
	Begin Position
	End   Position
}

func (this Range) String() string {
	if this.Begin == this.End {
		return this.Begin.String()
	}
	return this.Begin.String() + " to " + this.End.String()
}

type Location struct {
	File  string
	Range *Range
}

func (this *Location) String() string {
	if this == nil {
		return ""
	}
	if this.Range != nil {
		return this.File + ":" + this.Range.String()
	}
	return this.File
}

type Error struct {
	Code     et.ErrorKind
	Severity sv.Severity
	Message  string
	Location *Location
}

func (this *Error) String() string {
	out := this.Severity.String() + " " + this.ErrCode() + ": " + this.Message
	if this.Location != nil {
		out = this.Location.String() + " " + out
	}
	return out
}

func (this *Error) Error() string {
	return this.String()
}

func (this *Error) ErrCode() string {
	return this.Code.String()
}

func NewError(code et.ErrorKind, message string) *Error {
	return &Error{
		Code:     code,
		Severity: sv.Error,
		Message:  message,
	}
}

func InternalError(message string) *Error {
	return &Error{
		Code:     et.InternalCompilerError,
		Severity: sv.Error,
		Message:  message,
	}
}

func ProcessFileError(e error) *Error {
	return &Error{
		Code:     et.FileError,
		Severity: sv.Error,
		Message:  e.Error(),
	}
}
