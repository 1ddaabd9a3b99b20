package engine

import (
	"errors"
	"sync/atomic"
)

type mockProgram struct {
	expr string
}

func (p *mockProgram) FindFirst(text string) ([]int, error) { return nil, nil }
func (p *mockProgram) FindAll(text string) ([][]int, error) { return nil, nil }

type mockCompiler struct {
	calls int32
}

func (c *mockCompiler) Compile(flavor Flavor, expr string) (Program, error) {
	atomic.AddInt32(&c.calls, 1)
	if expr == "/(/" {
		return nil, &Error{Code: InternalError, Message: "Compilation failed: missing )"}
	}
	return &mockProgram{expr: expr}, nil
}

func (c *mockCompiler) callCount() int {
	return int(atomic.LoadInt32(&c.calls))
}

type panickingProgram struct{}

func (p *panickingProgram) FindFirst(text string) ([]int, error) { panic("engine state corrupted") }
func (p *panickingProgram) FindAll(text string) ([][]int, error) { panic("engine state corrupted") }

type failingProgram struct {
	err error
}

func (p *failingProgram) FindFirst(text string) ([]int, error) { return nil, p.err }
func (p *failingProgram) FindAll(text string) ([][]int, error) { return nil, p.err }

type fixedCompiler struct {
	program Program
}

func (c *fixedCompiler) Compile(flavor Flavor, expr string) (Program, error) {
	return c.program, nil
}

var errEmpty = errors.New("")
