package logstore

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/minelog/internal/record"
)

func TestReadAllReceipts_MissingFileIsEmpty(t *testing.T) {
	s, logs := createTestStore(t)

	got := s.ReadAllReceipts()
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, s.ReadAllErrors())
	assert.Empty(t, logs.String(), "a missing file is not a fault")
}

func TestReadAllReceipts_AppendOrder(t *testing.T) {
	s, _ := createTestStore(t)

	var want []record.Receipt
	for i := 0; i < 10; i++ {
		r := createTestReceipt(
			fmt.Sprintf("2024-01-01T00:00:%02dZ", i),
			"0xA",
			fmt.Sprintf("c%d", i),
			fmt.Sprintf("n%d", i),
			fmt.Sprintf("h%d", i),
		)
		want = append(want, r)
		s.AppendReceipt(r)
	}

	assert.Equal(t, want, s.ReadAllReceipts())
}

func TestReadAllReceipts_SkipsCorruptLine(t *testing.T) {
	s, logs := createTestStore(t)
	writeRaw(t, s, ChannelReceipts,
		`{"ts":"2024-01-01T00:00:00Z","address":"0xA","challenge_id":"c1","nonce":"n1","hash":"h1"}`+"\n"+
			`{"ts":"2024-01-01T00:00:03Z","address":`+"\n"+
			`{"ts":"2024-01-01T00:00:05Z","address":"0xB","challenge_id":"c2","nonce":"n2","hash":"h2"}`+"\n")

	got := s.ReadAllReceipts()
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].ChallengeID)
	assert.Equal(t, "c2", got[1].ChallengeID)

	out := logs.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "skipping unparseable line")
	assert.Contains(t, out, "line=2")
	assert.Contains(t, out, `2024-01-01T00:00:03Z`, "diagnostic must carry the raw line")
}

func TestReadAllReceipts_SkipsNonObjectLines(t *testing.T) {
	s, logs := createTestStore(t)
	writeRaw(t, s, ChannelReceipts, strings.Join([]string{
		`null`,
		`42`,
		`["0xA"]`,
		`"text"`,
		`{"ts":"2024-01-01T00:00:00Z","address":"0xA","challenge_id":"c1","nonce":"n1","hash":"h1"}`,
	}, "\n")+"\n")

	got := s.ReadAllReceipts()
	require.Len(t, got, 1)
	assert.Equal(t, "0xA", got[0].Address)
	assert.Equal(t, 4, strings.Count(logs.String(), "skipping unparseable line"))
}

func TestReadAllReceipts_ToleratesBlankLinesAndCRLF(t *testing.T) {
	s, logs := createTestStore(t)
	writeRaw(t, s, ChannelReceipts,
		"\n"+
			`{"ts":"2024-01-01T00:00:00Z","address":"0xA","challenge_id":"c1","nonce":"n1","hash":"h1"}`+"\r\n"+
			"   \n"+
			`{"ts":"2024-01-01T00:00:05Z","address":"0xB","challenge_id":"c2","nonce":"n2","hash":"h2"}`)

	got := s.ReadAllReceipts()
	require.Len(t, got, 2)
	assert.Equal(t, "0xB", got[1].Address, "a final line without a newline is still read")
	assert.Empty(t, logs.String())
}

func TestReadAllReceipts_ToleratesUnknownFields(t *testing.T) {
	s, _ := createTestStore(t)
	writeRaw(t, s, ChannelReceipts,
		`{"ts":"2024-01-01T00:00:00Z","address":"0xA","challenge_id":"c1","nonce":"n1","hash":"h1","worker":7,"extra":{"a":[1]}}`+"\n")

	got := s.ReadAllReceipts()
	require.Len(t, got, 1)
	assert.Equal(t, "h1", got[0].Hash)
}

func TestReadAllReceipts_ReadFaultReturnsEmpty(t *testing.T) {
	s, logs := createTestStore(t)
	blockChannel(t, s, ChannelReceipts)

	got := s.ReadAllReceipts()
	assert.NotNil(t, got)
	assert.Empty(t, got)

	out := logs.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "read failed, returning no records")
}

func TestReadRecentReceipts(t *testing.T) {
	s, _ := createTestStore(t)
	for i := 0; i < 5; i++ {
		s.AppendReceipt(createTestReceipt("2024-01-01T00:00:00Z", "0xA", fmt.Sprintf("c%d", i), "n", "h"))
	}

	challenges := func(rs []record.Receipt) []string {
		out := make([]string, 0, len(rs))
		for _, r := range rs {
			out = append(out, r.ChallengeID)
		}
		return out
	}

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{"zero", 0, []string{}},
		{"negative", -3, []string{}},
		{"one", 1, []string{"c4"}},
		{"some", 3, []string{"c2", "c3", "c4"}},
		{"exact", 5, []string{"c0", "c1", "c2", "c3", "c4"}},
		{"more than stored", 50, []string{"c0", "c1", "c2", "c3", "c4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.ReadRecentReceipts(tt.n)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, challenges(got))
		})
	}
}

func TestReadRecentReceipts_CountsOnlyValidLines(t *testing.T) {
	s, _ := createTestStore(t)
	writeRaw(t, s, ChannelReceipts,
		`{"ts":"t","address":"0xA","challenge_id":"c1","nonce":"n","hash":"h"}`+"\n"+
			`{"ts":"t","address":"0xA","challenge_id":"c2","nonce":"n","hash":"h"}`+"\n"+
			"garbage\n")

	got := s.ReadRecentReceipts(2)
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].ChallengeID)
	assert.Equal(t, "c2", got[1].ChallengeID)
}

func TestReadRecentReceipts_MissingFile(t *testing.T) {
	s, _ := createTestStore(t)

	got := s.ReadRecentReceipts(10)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReadAllErrors(t *testing.T) {
	s, _ := createTestStore(t)

	want := createTestError("2024-01-01T00:00:07Z", "0xA", "c1", "Solution already submitted")
	want.AddressIndex = record.Index(4)
	s.AppendError(want)
	s.AppendError(createTestError("2024-01-01T00:00:09Z", "0xB", "c2", "stale challenge"))

	got := s.ReadAllErrors()
	require.Len(t, got, 2)
	assert.Equal(t, want, got[0])
	assert.Equal(t, "stale challenge", got[1].Message)

	recent := s.ReadRecentErrors(1)
	require.Len(t, recent, 1)
	assert.Equal(t, "0xB", recent[0].Address)
}

func TestChannelsDoNotCrossContaminate(t *testing.T) {
	s, _ := createTestStore(t)

	for i := 0; i < 4; i++ {
		s.AppendReceipt(createTestReceipt("2024-01-01T00:00:00Z", "0xA", fmt.Sprintf("r%d", i), "n", "h"))
		s.AppendError(createTestError("2024-01-01T00:00:00Z", "0xA", fmt.Sprintf("e%d", i), "rejected"))
	}

	receipts := s.ReadAllReceipts()
	errs := s.ReadAllErrors()
	require.Len(t, receipts, 4)
	require.Len(t, errs, 4)
	for i := 0; i < 4; i++ {
		assert.Equal(t, fmt.Sprintf("r%d", i), receipts[i].ChallengeID)
		assert.Equal(t, fmt.Sprintf("e%d", i), errs[i].ChallengeID)
	}
}

func TestReadLines(t *testing.T) {
	s, _ := createTestStore(t)
	writeRaw(t, s, ChannelErrors, "{\"a\":1}\n\n  {\"b\":2}  \r\nnot json\n")

	lines, err := s.ReadLines(ChannelErrors)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, Line{Number: 1, Data: []byte(`{"a":1}`)}, lines[0])
	assert.Equal(t, Line{Number: 3, Data: []byte(`{"b":2}`)}, lines[1])
	assert.Equal(t, Line{Number: 4, Data: []byte(`not json`)}, lines[2])
}

func TestReadLines_MissingFile(t *testing.T) {
	s, _ := createTestStore(t)

	lines, err := s.ReadLines(ChannelReceipts)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestReadLines_ReadFault(t *testing.T) {
	s, _ := createTestStore(t)
	blockChannel(t, s, ChannelErrors)

	_, err := s.ReadLines(ChannelErrors)
	assert.Error(t, err)
}

func TestExampleScenario(t *testing.T) {
	s, _ := createTestStore(t)

	first := record.Receipt{Timestamp: "2024-01-01T00:00:00Z", Address: "0xA", ChallengeID: "c1", Nonce: "n1", Hash: "h1"}
	second := record.Receipt{Timestamp: "2024-01-01T00:00:05Z", Address: "0xB", ChallengeID: "c2", Nonce: "n2", Hash: "h2", IsDevFee: true}
	s.AppendReceipt(first)
	s.AppendReceipt(second)

	assert.Equal(t, []record.Receipt{first, second}, s.ReadAllReceipts())

	recent := s.ReadRecentReceipts(1)
	require.Len(t, recent, 1)
	assert.Equal(t, second, recent[0])
	assert.True(t, recent[0].IsDevFee)
}
