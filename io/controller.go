package io

// Controller is the port-to-device registry. Each port number maps to at
// most one device; the controller owns every device attached to it.
// The zero value is an empty registry ready for Attach.
type Controller struct {
	devices map[uint8]Device
}

// NewController creates an empty controller.
func NewController() (ctl *Controller) {
	ctl = &Controller{}

	return
}

// Attach registers a device at a port, replacing any prior registration.
// Attaching nil detaches the port.
func (ctl *Controller) Attach(port uint8, dev Device) {
	if dev == nil {
		ctl.Detach(port)
		return
	}

	if ctl.devices == nil {
		ctl.devices = make(map[uint8]Device, 8)
	}
	ctl.devices[port] = dev
}

// Detach removes the device registered at a port, if any.
func (ctl *Controller) Detach(port uint8) {
	delete(ctl.devices, port)
}

// Device returns the device registered at a port.
func (ctl *Controller) Device(port uint8) (dev Device, err error) {
	dev, ok := ctl.devices[port]
	if !ok {
		err = ErrInvalidPort
		return
	}

	return
}

// Read delegates a byte read to the device registered at port.
// Returns ErrInvalidPort if no device is registered there.
func (ctl *Controller) Read(port uint8) (value byte, err error) {
	dev, err := ctl.Device(port)
	if err != nil {
		return
	}

	value, err = dev.Read()

	return
}

// Write delegates a byte write to the device registered at port.
// Returns ErrInvalidPort if no device is registered there.
func (ctl *Controller) Write(port uint8, value byte) (err error) {
	dev, err := ctl.Device(port)
	if err != nil {
		return
	}

	err = dev.Write(value)

	return
}
