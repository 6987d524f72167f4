package main

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/OCAP2/skirmish/internal/dispatcher"
	"github.com/OCAP2/skirmish/internal/match"
	"github.com/OCAP2/skirmish/internal/parser"
)

// serve reads commands from r until EOF or the match has a winner.
func serve(r io.Reader, w io.Writer, d *dispatcher.Dispatcher, session *match.Session) error {
	fmt.Fprintln(w, session.Board())

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		e, ok := parser.ParseLine(scanner.Text(), time.Now())
		if !ok {
			continue
		}
		result, err := d.Dispatch(e)
		if err != nil {
			fmt.Fprintln(w, "error:", err)
			continue
		}
		if result != nil {
			fmt.Fprintln(w, result)
		}
		if e.Command != "board" && e.Command != "help" && e.Command != "status" && e.Command != "metrics" {
			fmt.Fprintln(w, session.Board())
		}
		if st := session.Status(); st.Ended {
			fmt.Fprintln(w, st)
			return nil
		}
	}
	return scanner.Err()
}
