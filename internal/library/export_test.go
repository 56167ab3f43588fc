package library

// ExecForTest runs a statement through the reader's connection.
func ExecForTest(r *Reader, query string) error {
	_, err := r.db.Exec(query)
	return err
}
