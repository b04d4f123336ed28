package store

import "fmt"

func errSegmentNotFound(id int64) error {
	return fmt.Errorf("segment %d not found", id)
}
