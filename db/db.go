package db

import (
	"github.com/jsphweid/sound2sight/layout"
	"github.com/jsphweid/sound2sight/model"
	"github.com/pkg/errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

// instrumentItem is one row of the instruments table keyed by instrument name.
type instrumentItem struct {
	PK      string `dynamodbav:"PK"`
	Layout  string `dynamodbav:"Layout"`
	Footage string `dynamodbav:"Footage"`
}

func NewClient(endpoint string) (dynamodbiface.DynamoDBAPI, error) {
	cfg := &aws.Config{Region: aws.String("localhost")}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return dynamodb.New(sess), nil
}

// ScanInstruments reads every instrument of the table.
func ScanInstruments(client dynamodbiface.DynamoDBAPI, table string) ([]model.Instrument, error) {
	var res []model.Instrument
	var decodeErr error

	input := &dynamodb.ScanInput{TableName: aws.String(table)}
	err := client.ScanPages(input, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		var items []instrumentItem
		if decodeErr = dynamodbattribute.UnmarshalListOfMaps(page.Items, &items); decodeErr != nil {
			return false
		}
		for _, item := range items {
			if item.PK == "" || item.Layout == "" {
				continue
			}
			res = append(res, model.Instrument{Name: item.PK, Layout: item.Layout, Footage: item.Footage})
		}
		return true
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error from DynamoDB scanning %s", table)
	}
	if decodeErr != nil {
		return nil, errors.Wrapf(decodeErr, "could not decode items of %s", table)
	}
	return res, nil
}

// LoadInstruments adds the instruments of the table to c, reading their
// layouts from the catalog directory dir.
func LoadInstruments(client dynamodbiface.DynamoDBAPI, table string, dir string, c *layout.Catalog) (int, error) {
	instruments, err := ScanInstruments(client, table)
	if err != nil {
		return 0, err
	}
	for _, i := range instruments {
		if err := c.LoadInstrument(dir, i); err != nil {
			return 0, err
		}
	}
	return len(instruments), nil
}
