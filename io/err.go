package io

import (
	"errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	// Controller errors
	ErrInvalidPort = errors.New(f("no device at port"))

	// Device errors
	ErrInputExhausted = errors.New(f("device input exhausted"))
	ErrDeviceFull     = errors.New(f("device full"))
)
