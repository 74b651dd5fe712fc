package weaviate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-chatbot/internal/domain/schema"
)

func TestDeleteClassToleratesMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, false)
	require.NoError(t, client.DeleteClass(context.Background(), "OpenAI"))
}

func TestCreateClassEncodesDataTypeArray(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/schema", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		io.WriteString(w, `{}`)
	}))
	defer server.Close()

	searchable := false
	client := newTestClient(t, server.URL, false)
	err := client.CreateClass(context.Background(), schema.Class{
		Name:       "OpenAIInverted",
		Vectorizer: "text2vec-openai",
		Properties: []schema.Property{
			{Name: "question", DataType: "text"},
			{Name: "answer", DataType: "text", IndexSearchable: &searchable},
		},
	})
	require.NoError(t, err)

	require.Equal(t, "OpenAIInverted", captured["class"])
	properties := captured["properties"].([]any)
	require.Len(t, properties, 2)
	answer := properties[1].(map[string]any)
	require.Equal(t, []any{"text"}, answer["dataType"])
	require.Equal(t, false, answer["indexSearchable"])
}

func TestGetSchemaTranslatesPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"classes":[
			{"class":"OpenAI","vectorizer":"text2vec-openai","properties":[{"name":"question","dataType":["text"]}]}
		]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, false)
	description, err := client.GetSchema(context.Background())
	require.NoError(t, err)
	require.Len(t, description.Classes, 1)
	require.Equal(t, "OpenAI", description.Classes[0].Name)
	require.Equal(t, "text", description.Classes[0].Properties[0].DataType)
}

func TestBatchInsertCountsSuccessesAndErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/batch/objects", r.URL.Path)
		io.WriteString(w, `[
			{"result":{"status":"SUCCESS"}},
			{"result":{"status":"FAILED","errors":{"error":[{"message":"vectorizer unavailable"}]}}},
			{"result":{"status":"SUCCESS"}}
		]`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, false)
	outcome, err := client.BatchInsert(context.Background(), []schema.Object{
		{Class: "OpenAI", Properties: map[string]any{"question": "q", "answer": "a"}},
		{Class: "OpenAI", Properties: map[string]any{"question": "q2", "answer": "a2"}},
		{Class: "OpenAIInverted", Properties: map[string]any{"question": "q", "answer": "a"}},
	})
	require.NoError(t, err)
	require.Equal(t, 2, outcome.Inserted)
	require.Equal(t, []string{"vectorizer unavailable"}, outcome.Errors)
}

func TestBatchInsertEmptyIsNoop(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1", false)
	outcome, err := client.BatchInsert(context.Background(), nil)
	require.NoError(t, err)
	require.Zero(t, outcome.Inserted)
}
