//go:build rp2040 || rp2350

package main

import (
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"sensorlog-go/logger"
)

// useUART selects a hardware UART console instead of USB CDC. Handy on
// boards where the USB port is taken by power only.
const useUART = false

const uartBaud = 115200

func console() logger.Console {
	if useUART {
		hw := uartx.UART0
		_ = hw.Configure(uartx.UARTConfig{BaudRate: uartBaud})
		return hw
	}
	return machine.Serial
}
