package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/sound2sight/constants"
	"github.com/jsphweid/sound2sight/layout"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	pages []*dynamodb.ScanOutput
	err   error
	table string
}

func (f *fakeDynamo) ScanPages(input *dynamodb.ScanInput, fn func(*dynamodb.ScanOutput, bool) bool) error {
	f.table = aws.StringValue(input.TableName)
	if f.err != nil {
		return f.err
	}
	for i, page := range f.pages {
		if !fn(page, i == len(f.pages)-1) {
			break
		}
	}
	return nil
}

func item(pk, layout, footage string) map[string]*dynamodb.AttributeValue {
	res := map[string]*dynamodb.AttributeValue{
		"PK":     {S: aws.String(pk)},
		"Layout": {S: aws.String(layout)},
	}
	if footage != "" {
		res["Footage"] = &dynamodb.AttributeValue{S: aws.String(footage)}
	}
	return res
}

func TestScanInstrumentsReadsAllPages(t *testing.T) {
	client := &fakeDynamo{pages: []*dynamodb.ScanOutput{
		{Items: []map[string]*dynamodb.AttributeValue{item("marimba", "marimba_layout.json", "marimba.mov")}},
		{Items: []map[string]*dynamodb.AttributeValue{item("violin", "violin_layout.json", ""), item("", "x.json", "")}},
	}}

	instruments, err := ScanInstruments(client, "instruments")

	assert := assert.New(t)
	assert.Nil(err)
	assert.Equal("instruments", client.table)
	assert.Len(instruments, 2)
	assert.Equal("marimba", instruments[0].Name)
	assert.Equal("marimba.mov", instruments[0].Footage)
	assert.Equal("violin_layout.json", instruments[1].Layout)
}

func TestScanInstrumentsWrapsErrors(t *testing.T) {
	cause := errors.New("table not found")
	_, err := ScanInstruments(&fakeDynamo{err: cause}, "instruments")
	assert.Equal(t, cause, errors.Cause(err))
}

func TestLoadInstrumentsReadsLayouts(t *testing.T) {
	dir := t.TempDir()
	assert.Nil(t, os.MkdirAll(filepath.Join(dir, constants.LayoutsDir), 0755))
	assert.Nil(t, os.WriteFile(filepath.Join(dir, constants.LayoutsDir, "marimba_layout.json"),
		[]byte(`{"60": [{"x": 1, "y": 2}]}`), 0644))

	client := &fakeDynamo{pages: []*dynamodb.ScanOutput{
		{Items: []map[string]*dynamodb.AttributeValue{item("Marimba", "marimba_layout.json", "")}},
	}}
	c := layout.NewCatalog()
	n, err := LoadInstruments(client, "instruments", dir, c)

	assert := assert.New(t)
	assert.Nil(err)
	assert.Equal(1, n)
	instrument, ok := c.Instrument("marimba 2")
	assert.True(ok)
	l, ok := c.Layout(instrument.Layout)
	assert.True(ok)
	assert.Equal(2.0, l[60][0].Y)
}

func TestLoadInstrumentsMissingLayout(t *testing.T) {
	client := &fakeDynamo{pages: []*dynamodb.ScanOutput{
		{Items: []map[string]*dynamodb.AttributeValue{item("tuba", "tuba_layout.json", "")}},
	}}
	_, err := LoadInstruments(client, "instruments", t.TempDir(), layout.NewCatalog())
	assert.NotNil(t, err)
}
