package fdw

// Session is the mutable state of one connector instance.
// BaseURL and Server survive across scans; records and cursor live only
// between BeginScan and EndScan. cursor never exceeds len(records).
type Session struct {
	BaseURL string
	Server  Options

	records []any
	cursor  int
	active  bool
}

// Active reports whether a scan is in progress.
func (s *Session) Active() bool { return s.active }

// Len returns the number of buffered source records.
func (s *Session) Len() int { return len(s.records) }

// Cursor returns the index of the next record to materialize.
func (s *Session) Cursor() int { return s.cursor }

func (s *Session) start(records []any) {
	s.records = records
	s.cursor = 0
	s.active = true
}

// current returns the record under the cursor, or false at end of data.
func (s *Session) current() (any, bool) {
	if s.cursor >= len(s.records) {
		return nil, false
	}
	return s.records[s.cursor], true
}

func (s *Session) advance() {
	if s.cursor < len(s.records) {
		s.cursor++
	}
}

func (s *Session) clear() {
	s.records = nil
	s.cursor = 0
	s.active = false
}
