package weaviate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/yanqian/faq-chatbot/internal/domain/schema"
)

// REST payloads. Weaviate encodes property data types as arrays; the
// domain model keeps a single type, so these shapes translate.

type classPayload struct {
	Class        string            `json:"class"`
	Description  string            `json:"description,omitempty"`
	Vectorizer   string            `json:"vectorizer,omitempty"`
	Properties   []propertyPayload `json:"properties,omitempty"`
	ModuleConfig map[string]any    `json:"moduleConfig,omitempty"`
}

type propertyPayload struct {
	Name            string   `json:"name"`
	DataType        []string `json:"dataType"`
	Description     string   `json:"description,omitempty"`
	IndexSearchable *bool    `json:"indexSearchable,omitempty"`
}

type schemaPayload struct {
	Classes []classPayload `json:"classes"`
}

type batchObjectResult struct {
	Result struct {
		Status string `json:"status"`
		Errors *struct {
			Error []struct {
				Message string `json:"message"`
			} `json:"error"`
		} `json:"errors"`
	} `json:"result"`
}

// DeleteClass implements schema.Manager. A class that does not exist is
// not an error; setup must work on a fresh instance.
func (c *Client) DeleteClass(ctx context.Context, name string) error {
	result, err := c.do(ctx, "schema_delete", http.MethodDelete, "/v1/schema/"+url.PathEscape(name), nil)
	if err != nil {
		return err
	}
	switch result.status {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound, http.StatusBadRequest:
		return nil
	default:
		return fmt.Errorf("delete class %q: status %d: %s", name, result.status, truncate(result.body))
	}
}

// CreateClass implements schema.Manager.
func (c *Client) CreateClass(ctx context.Context, class schema.Class) error {
	result, err := c.do(ctx, "schema_create", http.MethodPost, "/v1/schema", toClassPayload(class))
	if err != nil {
		return err
	}
	if result.status != http.StatusOK {
		return fmt.Errorf("create class %q: status %d: %s", class.Name, result.status, truncate(result.body))
	}
	return nil
}

// GetSchema implements schema.Manager.
func (c *Client) GetSchema(ctx context.Context) (schema.Description, error) {
	result, err := c.do(ctx, "schema_get", http.MethodGet, "/v1/schema", nil)
	if err != nil {
		return schema.Description{}, err
	}
	if result.status != http.StatusOK {
		return schema.Description{}, fmt.Errorf("get schema: status %d: %s", result.status, truncate(result.body))
	}
	var payload schemaPayload
	if err := json.Unmarshal(result.body, &payload); err != nil {
		return schema.Description{}, fmt.Errorf("decode schema: %w", err)
	}
	description := schema.Description{Classes: make([]schema.Class, 0, len(payload.Classes))}
	for _, class := range payload.Classes {
		description.Classes = append(description.Classes, fromClassPayload(class))
	}
	return description, nil
}

// BatchInsert implements schema.Manager.
func (c *Client) BatchInsert(ctx context.Context, objects []schema.Object) (schema.BatchOutcome, error) {
	if len(objects) == 0 {
		return schema.BatchOutcome{}, nil
	}
	payload := map[string]any{"objects": objects}
	result, err := c.do(ctx, "batch_insert", http.MethodPost, "/v1/batch/objects", payload)
	if err != nil {
		return schema.BatchOutcome{}, err
	}
	if result.status != http.StatusOK {
		return schema.BatchOutcome{}, fmt.Errorf("batch insert: status %d: %s", result.status, truncate(result.body))
	}
	var results []batchObjectResult
	if err := json.Unmarshal(result.body, &results); err != nil {
		return schema.BatchOutcome{}, fmt.Errorf("decode batch result: %w", err)
	}
	outcome := schema.BatchOutcome{}
	for _, item := range results {
		if item.Result.Errors != nil && len(item.Result.Errors.Error) > 0 {
			outcome.Errors = append(outcome.Errors, item.Result.Errors.Error[0].Message)
			continue
		}
		outcome.Inserted++
	}
	return outcome, nil
}

func toClassPayload(class schema.Class) classPayload {
	payload := classPayload{
		Class:        class.Name,
		Description:  class.Description,
		Vectorizer:   class.Vectorizer,
		ModuleConfig: class.ModuleConfig,
	}
	for _, property := range class.Properties {
		payload.Properties = append(payload.Properties, propertyPayload{
			Name:            property.Name,
			DataType:        []string{property.DataType},
			Description:     property.Description,
			IndexSearchable: property.IndexSearchable,
		})
	}
	return payload
}

func fromClassPayload(payload classPayload) schema.Class {
	class := schema.Class{
		Name:         payload.Class,
		Description:  payload.Description,
		Vectorizer:   payload.Vectorizer,
		ModuleConfig: payload.ModuleConfig,
	}
	for _, property := range payload.Properties {
		dataType := ""
		if len(property.DataType) > 0 {
			dataType = property.DataType[0]
		}
		class.Properties = append(class.Properties, schema.Property{
			Name:            property.Name,
			DataType:        dataType,
			Description:     property.Description,
			IndexSearchable: property.IndexSearchable,
		})
	}
	return class
}
