package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/tesseract-fest/event-registration/slices"
	"github.com/tesseract-fest/event-registration/tickets"
)

var _ tickets.Repository = &DB{}

type ticketDynamo struct {
	PK string
	SK string

	ID               string
	Version          int
	Title            string
	Description      *string
	PriceAmount      int64
	PriceCurrency    string
	Active           bool
	FormFields       []formFieldDynamo
	MaxRegistrations *int
	CreatedAt        time.Time
}

type formFieldDynamo struct {
	ID          string
	Label       string
	Type        string
	Required    bool
	Options     []string
	Placeholder *string
}

const (
	ticketEntityName = "TICKET"
)

func ticketPK(id uuid.UUID) string {
	return fmt.Sprintf("%s#%s", ticketEntityName, id)
}

func ticketSK(id uuid.UUID) string {
	return fmt.Sprintf("%s#%s", ticketEntityName, id)
}

func ticketToDynamo(ticket tickets.Ticket) ticketDynamo {
	var priceAmount int64
	var priceCurrency string
	if ticket.Price != nil {
		priceAmount = ticket.Price.Amount()
		priceCurrency = ticket.Price.Currency().Code
	}

	return ticketDynamo{
		PK:            ticketPK(ticket.ID),
		SK:            ticketSK(ticket.ID),
		ID:            ticket.ID.String(),
		Version:       ticket.Version,
		Title:         ticket.Title,
		Description:   ticket.Description,
		PriceAmount:   priceAmount,
		PriceCurrency: priceCurrency,
		Active:        ticket.Active,
		FormFields: slices.Map(ticket.FormFields, func(f tickets.FormField) formFieldDynamo {
			return formFieldToDynamo(f)
		}),
		MaxRegistrations: ticket.MaxRegistrations,
		CreatedAt:        ticket.CreatedAt,
	}
}

func dynamoToTicket(ticket ticketDynamo) tickets.Ticket {
	var price *money.Money
	if ticket.PriceCurrency != "" {
		price = money.New(ticket.PriceAmount, ticket.PriceCurrency)
	}

	return tickets.Ticket{
		ID:          uuid.MustParse(ticket.ID),
		Version:     ticket.Version,
		Title:       ticket.Title,
		Description: ticket.Description,
		Price:       price,
		Active:      ticket.Active,
		FormFields: slices.Map(ticket.FormFields, func(f formFieldDynamo) tickets.FormField {
			return dynamoToFormField(f)
		}),
		MaxRegistrations: ticket.MaxRegistrations,
		CreatedAt:        ticket.CreatedAt,
	}
}

func formFieldToDynamo(f tickets.FormField) formFieldDynamo {
	return formFieldDynamo{
		ID:          f.ID,
		Label:       f.Label,
		Type:        string(f.Type),
		Required:    f.Required,
		Options:     f.Options,
		Placeholder: f.Placeholder,
	}
}

func dynamoToFormField(f formFieldDynamo) tickets.FormField {
	return tickets.FormField{
		ID:          f.ID,
		Label:       f.Label,
		Type:        tickets.FieldType(f.Type),
		Required:    f.Required,
		Options:     f.Options,
		Placeholder: f.Placeholder,
	}
}

func (d *DB) CreateTicket(ctx context.Context, ticket tickets.Ticket) error {
	dynamoTicket := ticketToDynamo(ticket)

	item, err := attributevalue.MarshalMap(dynamoTicket)
	if err != nil {
		return tickets.NewFailedToTranslateToDBModelError("Failed to translate ticket to dynamo model", err)
	}
	expr := exprMustBuild(expression.NewBuilder().WithCondition(newEntityConditional()))

	_, err = d.dynamoClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(d.tableName),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var conditionFailedErr *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailedErr) {
			return tickets.NewTicketAlreadyExistsError(fmt.Sprintf("Ticket with ID %q already exists", ticket.ID), err)
		}
		return tickets.NewFailedToWriteError("Failed PutItem call", err)
	}

	return nil
}

func (d *DB) GetTicket(ctx context.Context, id uuid.UUID) (tickets.Ticket, error) {
	resp, err := d.dynamoClient.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: ticketPK(id)},
			"SK": &types.AttributeValueMemberS{Value: ticketSK(id)},
		},
	})
	if err != nil {
		return tickets.Ticket{}, tickets.NewFailedToFetchError(fmt.Sprintf("Failed to fetch ticket with ID %q", id), err)
	}

	if len(resp.Item) == 0 {
		return tickets.Ticket{}, tickets.NewTicketDoesNotExistError(fmt.Sprintf("Ticket with ID %q not found", id), nil)
	}

	var dynTicket ticketDynamo
	err = attributevalue.UnmarshalMap(resp.Item, &dynTicket)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal ticket from dynamo: %s", err))
	}

	return dynamoToTicket(dynTicket), nil
}
