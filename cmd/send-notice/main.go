// Command send-notice composes a notice in the terminal and posts it to the
// configured endpoint.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/debemdeboas/notice-composer/internal/composer"
	"github.com/debemdeboas/notice-composer/internal/config"
	"github.com/debemdeboas/notice-composer/internal/logger"
	"github.com/debemdeboas/notice-composer/internal/model"
	"github.com/debemdeboas/notice-composer/internal/poster"
)

var (
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	outputStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

var errAborted = errors.New("aborted")

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	imagePath := flag.String("image", "", "optional image to attach")
	flag.Parse()

	if err := config.LoadConfig(*configPath); err != nil {
		fmt.Println("Error loading configuration:", err)
		os.Exit(1)
	}
	cfg := config.AppConfig

	l := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	poster.SetLogger(l.With().Str("component", "poster").Logger())
	composer.SetLogger(l.With().Str("component", "composer").Logger())

	c := composer.New("terminal", poster.New(cfg.Poster.Endpoint, cfg.Poster.Timeout))

	if *imagePath != "" {
		img, err := loadImage(*imagePath)
		if err != nil {
			fmt.Println("Error loading image:", err)
			os.Exit(1)
		}
		c.SelectImage(img)
	}

	if err := run(context.Background(), os.Stdin, os.Stdout, c); err != nil {
		if errors.Is(err, errAborted) {
			fmt.Println(outputStyle.Render("Nothing sent."))
			return
		}
		os.Exit(1)
	}
}

func loadImage(path string) (*model.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &model.Image{
		Filename:    filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}

// run asks for the caption and the buttons, shows the keyboard that will be
// sent and submits once confirmed. The returned error is the send failure.
func run(ctx context.Context, in io.Reader, out io.Writer, c *composer.Composer) error {
	scanner := bufio.NewScanner(in)
	// line reads one answer as typed; the scanner already drops the line ending.
	line := func(prompt string) (string, bool) {
		fmt.Fprint(out, promptStyle.Render(prompt))
		if !scanner.Scan() {
			return "", false
		}
		return scanner.Text(), true
	}
	ask := func(prompt string) (string, bool) {
		answer, ok := line(prompt)
		return strings.TrimSpace(answer), ok
	}

	fmt.Fprintln(out, "Enter the caption, then the buttons one by one. Leave the button text empty to finish.")

	// The caption is kept verbatim.
	caption, ok := line("Caption: ")
	if !ok {
		return errAborted
	}
	c.SetCaption(caption)

	rows := 0
	for {
		text, ok := ask("Button text: ")
		if !ok || text == "" {
			break
		}
		link, _ := ask("Button URL: ")
		command, _ := ask("Button command: ")

		// A fresh draft already holds one empty row.
		if rows > 0 {
			c.AddButtonRow()
		}
		for field, value := range map[string]string{
			model.FieldText:         text,
			model.FieldURL:          link,
			model.FieldCallbackData: command,
		} {
			if err := c.UpdateButtonField(rows, field, value); err != nil {
				return err
			}
		}
		rows++
	}
	if rows == 0 {
		if err := c.RemoveButtonRow(0); err != nil {
			return err
		}
	}

	markup, err := c.ReplyMarkup().JSON()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, outputStyle.Render("reply_markup: "+string(markup)))
	if img := c.View().Draft.Image; img != nil {
		fmt.Fprintln(out, outputStyle.Render(fmt.Sprintf("photo: %s (%d bytes)", img.Filename, img.Size())))
	}

	answer, ok := ask("Send? [y/N]: ")
	if !ok || !strings.EqualFold(answer, "y") {
		return errAborted
	}

	sendErr := c.Submit(ctx)
	v := c.View()
	if sendErr != nil {
		fmt.Fprintln(out, errorStyle.Render(v.Error))
		return sendErr
	}
	fmt.Fprintln(out, successStyle.Render(v.Success))
	return nil
}
