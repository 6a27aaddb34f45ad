package expense

import (
	"context"
	"errors"
	"strconv"
)

// StubRecordSource is an in-memory RecordSource for tests.
type StubRecordSource struct {
	records  []RawRecord
	nextId   int
	fetchErr error
}

func NewStubRecordSource() *StubRecordSource {
	return &StubRecordSource{nextId: 1}
}

func (s *StubRecordSource) SetRecords(records []RawRecord) {
	s.records = records
}

func (s *StubRecordSource) FailFetchWith(err error) {
	s.fetchErr = err
}

func (s *StubRecordSource) FetchRecords(_ context.Context) ([]RawRecord, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.records, nil
}

func (s *StubRecordSource) CreateRecord(_ context.Context, record RawRecord) (RawRecord, error) {
	created := RawRecord{}
	for k, v := range record {
		created[k] = v
	}
	created["id"] = strconv.Itoa(s.nextId)
	s.nextId++
	s.records = append(s.records, created)
	return created, nil
}

func (s *StubRecordSource) UpdateRecord(_ context.Context, id string, record RawRecord) (RawRecord, error) {
	for i, existing := range s.records {
		if existing["id"] == id {
			updated := RawRecord{"id": id}
			for k, v := range record {
				updated[k] = v
			}
			s.records[i] = updated
			return updated, nil
		}
	}
	return nil, errors.New("record not found: " + id)
}

func (s *StubRecordSource) DeleteRecord(_ context.Context, id string) error {
	for i, existing := range s.records {
		if existing["id"] == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return errors.New("record not found: " + id)
}

func (s *StubRecordSource) Reset() {
	s.records = nil
	s.nextId = 1
	s.fetchErr = nil
}
