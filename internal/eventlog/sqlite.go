package eventlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roman-kulish/pen-strokes/internal/pointer"
	"github.com/roman-kulish/pen-strokes/internal/session"
)

// stepData is a row of the steps table.
type stepData struct {
	Seq         int64
	Kind        string
	Type        sql.NullString
	ClientX     float64
	ClientY     float64
	Pressure    sql.NullFloat64
	PointerType sql.NullString
	Button      sql.NullInt64
	AtMs        int64
}

// SQLiteReader reads a script from a SQLite capture file opened read-only.
type SQLiteReader struct {
	db          *sql.DB
	rows        *sql.Rows
	participant session.Participant
	current     *Step
	err         error
}

func openSQLite(ctx context.Context, path string) (*SQLiteReader, error) {
	// mode=ro would otherwise report a missing file only on the first query
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening script: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", path, "mode=ro"))
	if err != nil {
		return nil, fmt.Errorf("opening read connection: %w", err)
	}

	r := &SQLiteReader{db: db}
	if err = r.init(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing reader: %w", err)
	}
	return r, nil
}

func (r *SQLiteReader) init(ctx context.Context) error {
	steps := []struct {
		msg string
		fn  func(context.Context) error
	}{
		{msg: "loading participant", fn: r.loadParticipant},
		{msg: "initializing query", fn: r.initQuery},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.msg, err)
		}
	}
	return nil
}

func (r *SQLiteReader) loadParticipant(ctx context.Context) (err error) {
	stmt, err := r.db.PrepareContext(ctx, selectParticipantSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	var name string
	var age, profile sql.NullString
	if err = stmt.QueryRowContext(ctx).Scan(&name, &age, &profile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoData
		}
		return fmt.Errorf("querying participant: %w", err)
	}

	r.participant = session.Participant{
		Name:    name,
		Age:     age.String,
		Profile: session.Profile(profile.String),
	}
	return nil
}

func (r *SQLiteReader) initQuery(ctx context.Context) (err error) {
	stmt, err := r.db.PrepareContext(ctx, selectStepsSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	if r.rows, err = stmt.QueryContext(ctx); err != nil {
		return err
	}
	return nil
}

func (r *SQLiteReader) scanStep() (*Step, error) {
	var row stepData
	err := r.rows.Scan(
		&row.Seq,
		&row.Kind,
		&row.Type,
		&row.ClientX,
		&row.ClientY,
		&row.Pressure,
		&row.PointerType,
		&row.Button,
		&row.AtMs,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning step: %w", err)
	}

	kind, err := ParseKind(row.Kind)
	if err != nil {
		return nil, NewFormatError("step %d: %v", row.Seq, err)
	}

	step := Step{
		Kind: kind,
		AtMs: row.AtMs,
		Event: pointer.Event{
			ClientX:     row.ClientX,
			ClientY:     row.ClientY,
			PointerType: row.PointerType.String,
		},
	}
	if row.Button.Valid {
		step.Event = step.WithButton(int(row.Button.Int64))
	}
	if row.Type.Valid && row.Type.String != "" {
		if step.Type, err = pointer.ParseEventType(row.Type.String); err != nil {
			return nil, NewFormatError("step %d: %v", row.Seq, err)
		}
	}
	if row.Pressure.Valid {
		step.Pressure = &row.Pressure.Float64
	}
	if err = step.validate(); err != nil {
		return nil, NewFormatError("step %d: %v", row.Seq, err)
	}

	return &step, nil
}

func (r *SQLiteReader) Participant() session.Participant {
	return r.participant
}

func (r *SQLiteReader) Next(ctx context.Context) bool {
	if r.err != nil || r.rows == nil {
		return false
	}

	select {
	case <-ctx.Done():
		r.err = ctx.Err()
		return false
	default:
	}

	if !r.rows.Next() {
		r.current = nil
		return false
	}

	r.current, r.err = r.scanStep()
	return r.err == nil
}

func (r *SQLiteReader) Current() *Step {
	return r.current
}

func (r *SQLiteReader) Error() error {
	if r.err != nil {
		return r.err
	}
	if r.rows != nil {
		return r.rows.Err()
	}
	return nil
}

func (r *SQLiteReader) Close() error {
	var rowsErr error
	if r.rows != nil {
		rowsErr = r.rows.Close()
		r.rows = nil
		r.current = nil
	}
	if r.db == nil {
		return rowsErr
	}

	dbErr := r.db.Close()
	r.db = nil
	return errors.Join(rowsErr, dbErr)
}

// WriteSQLite stores a script as a new SQLite capture file at path. An
// existing file is never appended to.
func WriteSQLite(ctx context.Context, path string, participant session.Participant, steps []Step) (err error) {
	if err = CheckCaptureTarget(path); err != nil {
		return err
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", path, "_journal_mode=WAL&_synchronous=NORMAL"))
	if err != nil {
		return fmt.Errorf("opening write connection: %w", err)
	}
	defer closeWithError(db, &err)

	if _, err = db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	if _, err = tx.ExecContext(ctx, insertParticipantSQL, participant.Name, participant.Age, string(participant.Profile)); err != nil {
		return fmt.Errorf("inserting participant: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertStepSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	for i, s := range steps {
		var eventType sql.NullString
		if s.Kind == KindEvent {
			eventType = sql.NullString{String: s.Type.String(), Valid: true}
		}

		var pressure sql.NullFloat64
		if s.Pressure != nil {
			pressure = sql.NullFloat64{Float64: *s.Pressure, Valid: true}
		}

		var pointerType sql.NullString
		if s.PointerType != "" {
			pointerType = sql.NullString{String: s.PointerType, Valid: true}
		}

		var button sql.NullInt64
		if s.Button != nil {
			button = sql.NullInt64{Int64: int64(*s.Button), Valid: true}
		}

		_, err = stmt.ExecContext(ctx, i+1, s.Kind.String(), eventType, s.ClientX, s.ClientY, pressure, pointerType, button, s.AtMs)
		if err != nil {
			return fmt.Errorf("inserting step %d: %w", i+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// CheckCaptureTarget returns ErrCaptureExists when path is taken.
func CheckCaptureTarget(path string) error {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return fmt.Errorf("'%s': %w", path, ErrCaptureExists)
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("checking capture file '%s': %w", path, err)
	}
}

func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	if rErr := rb.Rollback(); rErr != nil && !errors.Is(rErr, sql.ErrTxDone) && *err == nil {
		*err = rErr
	}
}
