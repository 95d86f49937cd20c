package engine

import (
	"errors"
	"io"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

var errNoPing = errors.New("device did not respond to ping correctly")

// DLPIO8G drives the lines of a DLP-IO8-G USB trigger box. Digits '1'..'8'
// raise a line, the matching letters of the qwerty row lower it.
type DLPIO8G struct {
	port io.ReadWriteCloser
	log  *zap.Logger
}

func NewDLPIO8G(device string, baudrate int, log *zap.Logger) (*DLPIO8G, error) {
	mode := &serial.Mode{
		BaudRate: baudrate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, err
	}
	if err := port.SetReadTimeout(500 * time.Millisecond); err != nil {
		port.Close()
		return nil, err
	}

	d, err := newDLP(port, log)
	if err != nil {
		port.Close()
		return nil, err
	}
	return d, nil
}

func newDLP(port io.ReadWriteCloser, log *zap.Logger) (*DLPIO8G, error) {
	d := &DLPIO8G{port: port, log: log}
	if !d.Ping() {
		return nil, errNoPing
	}

	// Binary mode
	if _, err := port.Write([]byte{0x5C}); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DLPIO8G) Close() {
	if d.port != nil {
		d.port.Close()
	}
}

func (d *DLPIO8G) Ping() bool {
	if _, err := d.port.Write([]byte{0x27}); err != nil {
		return false
	}

	buf := make([]byte, 1)
	n, err := d.port.Read(buf)
	return err == nil && n == 1 && buf[0] == 'Q'
}

func (d *DLPIO8G) Set(lines string) {
	if _, err := d.port.Write([]byte(lines)); err != nil {
		d.log.Warn("dlp set failed", zap.String("lines", lines), zap.Error(err))
	}
}

var unsetCodes = map[byte]byte{
	'1': 'Q', '2': 'W', '3': 'E', '4': 'R',
	'5': 'T', '6': 'Y', '7': 'U', '8': 'I',
}

func (d *DLPIO8G) Unset(lines string) {
	cmd := []byte(lines)
	for i := range cmd {
		if c, ok := unsetCodes[cmd[i]]; ok {
			cmd[i] = c
		}
	}
	if _, err := d.port.Write(cmd); err != nil {
		d.log.Warn("dlp unset failed", zap.String("lines", lines), zap.Error(err))
	}
}
