package errorkind

import (
	"fmt"
)

type ErrorKind int

const (
	InvalidErrType ErrorKind = iota
	InternalCompilerError

	InvalidSymbol

	ExpectedSymbol
	ExpectedProd
	ExpectedEOF

	FileError
	InvalidFileName

	UndefinedVariable
	UndefinedRegister
	AllocationFailure
	InvalidBudget

	ExecLimit
)

func (et ErrorKind) String() string {
	v, ok := ErrorCodeMap[et]
	if !ok {
		panic(fmt.Sprintf("%d is not stringified", et))
	}
	return v
}

var ErrorCodeMap = map[ErrorKind]string{
	InvalidErrType:        "E001",
	InternalCompilerError: "E002",

	InvalidSymbol: "E003",

	ExpectedSymbol: "E004",
	ExpectedProd:   "E005",
	ExpectedEOF:    "E006",

	FileError:       "E007",
	InvalidFileName: "E008",

	UndefinedVariable: "E009",
	UndefinedRegister: "E010",
	AllocationFailure: "E011",
	InvalidBudget:     "E012",

	ExecLimit: "E013",
}
