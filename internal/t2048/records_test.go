package t2048

import (
	"strings"
	"testing"
	"time"
)

func TestEncodeRecordsWireFormat(t *testing.T) {
	secs := 42
	raw, err := EncodeRecords([]Record{
		{ID: 2, Score: 64, Date: "d2", Timestamp: 2, Duration: &secs, Won: true},
		{ID: 1, Score: 8, Date: "d1", Timestamp: 1},
	})
	if err != nil {
		t.Fatalf("EncodeRecords failed: %v", err)
	}

	want := `[{"id":2,"score":64,"date":"d2","timestamp":2,"duration":42,"won":true},` +
		`{"id":1,"score":8,"date":"d1","timestamp":1,"won":false}]`
	if raw != want {
		t.Errorf("EncodeRecords =\n%s\nwant\n%s", raw, want)
	}
}

func TestEncodeNilRecords(t *testing.T) {
	raw, err := EncodeRecords(nil)
	if err != nil {
		t.Fatal(err)
	}
	if raw != "[]" {
		t.Errorf("EncodeRecords(nil) = %q, want []", raw)
	}
}

func TestDecodeRecordsRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "{", `{"id":1}`, "null garbage"} {
		if _, err := DecodeRecords(raw); err == nil {
			t.Errorf("DecodeRecords(%q) should fail", raw)
		}
	}
}

func TestParseBestScore(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "0", want: 0},
		{raw: "2048", want: 2048},
		{raw: "-5", wantErr: true},
		{raw: "12abc", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseBestScore(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseBestScore(%q) err = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseBestScore(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestPrependRecord(t *testing.T) {
	history := []Record{{ID: 2}, {ID: 1}}
	out := prependRecord(history, Record{ID: 3}, 2)

	if len(out) != 2 || out[0].ID != 3 || out[1].ID != 2 {
		t.Errorf("prependRecord = %+v, want IDs [3 2]", out)
	}
	if history[0].ID != 2 {
		t.Error("prependRecord must not modify its input")
	}
}

func TestComputeStats(t *testing.T) {
	a, b := 60, 30
	stats := ComputeStats([]Record{
		{Score: 100, Won: true, Duration: &a},
		{Score: 300, Duration: &b},
		{Score: 200},
	})

	if stats.Games != 3 || stats.Wins != 1 || stats.BestScore != 300 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.AvgScore != 200 {
		t.Errorf("AvgScore = %v, want 200", stats.AvgScore)
	}
	if stats.TotalTime != 90*time.Second {
		t.Errorf("TotalTime = %v, want 1m30s", stats.TotalTime)
	}

	if empty := ComputeStats(nil); empty != (Stats{}) {
		t.Errorf("ComputeStats(nil) = %+v, want zero", empty)
	}
}

func TestDirectionString(t *testing.T) {
	names := []string{DirUp.String(), DirDown.String(), DirLeft.String(), DirRight.String()}
	if got := strings.Join(names, ","); got != "up,down,left,right" {
		t.Errorf("direction names = %s", got)
	}
}
