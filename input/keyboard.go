package input

import (
	"github.com/eiannone/keyboard"

	"github.com/hoshinonyaruko/snake-grid/structs"
)

// KeyInput represents a keyboard input event
type KeyInput struct {
	Char rune
	Key  keyboard.Key
}

// Command is what a key press asks the game to do.
type Command int

const (
	CommandNone Command = iota
	CommandMove
	CommandRestart
	CommandQuit
)

// KeyboardHandler reads raw key presses from the terminal.
type KeyboardHandler struct {
	inputChan chan KeyInput
}

func NewKeyboardHandler() *KeyboardHandler {
	return &KeyboardHandler{
		inputChan: make(chan KeyInput),
	}
}

// Start puts the terminal in raw mode and begins listening. The input
// channel is closed when reading fails, e.g. after Stop.
func (h *KeyboardHandler) Start() error {
	if err := keyboard.Open(); err != nil {
		return err
	}

	go func() {
		defer close(h.inputChan)
		for {
			char, key, err := keyboard.GetKey()
			if err != nil {
				return
			}
			h.inputChan <- KeyInput{Char: char, Key: key}
		}
	}()

	return nil
}

// Stop restores the terminal.
func (h *KeyboardHandler) Stop() {
	keyboard.Close()
}

func (h *KeyboardHandler) Events() <-chan KeyInput {
	return h.inputChan
}

// Parse maps arrows and WASD to headings, r to restart and q, Esc or Ctrl-C
// to quit.
func Parse(in KeyInput) (Command, structs.Heading) {
	switch in.Key {
	case keyboard.KeyArrowUp:
		return CommandMove, structs.HeadingUp
	case keyboard.KeyArrowDown:
		return CommandMove, structs.HeadingDown
	case keyboard.KeyArrowLeft:
		return CommandMove, structs.HeadingLeft
	case keyboard.KeyArrowRight:
		return CommandMove, structs.HeadingRight
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return CommandQuit, structs.HeadingNone
	}

	switch in.Char {
	case 'w', 'W':
		return CommandMove, structs.HeadingUp
	case 's', 'S':
		return CommandMove, structs.HeadingDown
	case 'a', 'A':
		return CommandMove, structs.HeadingLeft
	case 'd', 'D':
		return CommandMove, structs.HeadingRight
	case 'r', 'R':
		return CommandRestart, structs.HeadingNone
	case 'q', 'Q':
		return CommandQuit, structs.HeadingNone
	}
	return CommandNone, structs.HeadingNone
}
