package main

import "github.com/atotto/clipboard"

// systemClipboard backs the * and + registers with the OS clipboard.
type systemClipboard struct{}

func (systemClipboard) Write(text string) error {
	return clipboard.WriteAll(text)
}

func (systemClipboard) Read() (string, error) {
	return clipboard.ReadAll()
}
