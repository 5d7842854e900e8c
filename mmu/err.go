package mmu

import (
	"errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	// Memory errors
	ErrOutOfBounds = errors.New(f("memory access out of bounds"))
)
