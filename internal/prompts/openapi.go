package prompts

import "github.com/JaimeStill/promptbase/pkg/openapi"

var idParam = openapi.PathParam("id", "Prompt ID")

var promptResponses = map[int]*openapi.Response{
	200: openapi.ResponseJSON("Prompt", "Prompt"),
	400: openapi.ResponseRef("BadRequest"),
	404: openapi.ResponseRef("NotFound"),
	500: openapi.ResponseRef("InternalError"),
}

type docs struct {
	List         *openapi.Operation
	Search       *openapi.Operation
	Find         *openapi.Operation
	Placeholders *openapi.Operation
	Create       *openapi.Operation
	Update       *openapi.Operation
	Delete       *openapi.Operation
	Favorite     *openapi.Operation
	Unfavorite   *openapi.Operation
	Render       *openapi.Operation
	Schemas      map[string]*openapi.Schema
}

var apiDocs = docs{
	List: &openapi.Operation{
		Summary:     "List prompts",
		Description: "Newest first. search is a literal substring of title or prompt; favorite narrows by flag.",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Literal substring of title or prompt", false),
			openapi.QueryParam("sort", "string", "Comma-separated sort fields, - prefix for descending", false),
			openapi.QueryParam("favorite", "boolean", "true for favorites only, false for the rest", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Page of prompts", "PromptPage"),
			500: openapi.ResponseRef("InternalError"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search prompts",
		RequestBody: openapi.RequestBodyJSON("SearchRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Page of prompts", "PromptPage"),
			400: openapi.ResponseRef("BadRequest"),
			500: openapi.ResponseRef("InternalError"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Find prompt",
		Parameters: []*openapi.Parameter{idParam},
		Responses:  promptResponses,
	},
	Placeholders: &openapi.Operation{
		Summary:    "List template placeholders",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Placeholder names in first-appearance order", "Placeholders"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Create prompt",
		RequestBody: openapi.RequestBodyJSON("CreateCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Created prompt", "Prompt"),
			400: openapi.ResponseRef("BadRequest"),
			500: openapi.ResponseRef("InternalError"),
		},
	},
	Update: &openapi.Operation{
		Summary:     "Replace prompt",
		Parameters:  []*openapi.Parameter{idParam},
		RequestBody: openapi.RequestBodyJSON("UpdateCommand", true),
		Responses:   promptResponses,
	},
	Delete: &openapi.Operation{
		Summary:    "Delete prompt",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			204: {Description: "Deleted"},
			404: openapi.ResponseRef("NotFound"),
			500: openapi.ResponseRef("InternalError"),
		},
	},
	Favorite: &openapi.Operation{
		Summary:    "Mark prompt as favorite",
		Parameters: []*openapi.Parameter{idParam},
		Responses:  promptResponses,
	},
	Unfavorite: &openapi.Operation{
		Summary:    "Clear favorite flag",
		Parameters: []*openapi.Parameter{idParam},
		Responses:  promptResponses,
	},
	Render: &openapi.Operation{
		Summary:     "Render template",
		Description: "Substitutes every {name} in the template. Doubled braces are literal.",
		Parameters:  []*openapi.Parameter{idParam},
		RequestBody: openapi.RequestBodyJSON("RenderRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Rendered text", "RenderResponse"),
			404: openapi.ResponseRef("NotFound"),
			422: openapi.ResponseJSON("Placeholders without values", "MissingPlaceholders"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"Prompt": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "integer", Format: "int64"},
				"title":       {Type: "string"},
				"prompt":      {Type: "string"},
				"template":    {Type: "string", Description: "Text with {name} placeholders"},
				"is_favorite": {Type: "boolean"},
				"created_at":  {Type: "string", Format: "date-time"},
				"updated_at":  {Type: "string", Format: "date-time"},
			},
		},
		"PromptPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Prompt")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"CreateCommand": {
			Type:     "object",
			Required: []string{"title", "prompt"},
			Properties: map[string]*openapi.Schema{
				"title":       {Type: "string", MinLength: openapi.Ptr(1)},
				"prompt":      {Type: "string", MinLength: openapi.Ptr(1)},
				"template":    {Type: "string", Default: ""},
				"is_favorite": {Type: "boolean", Default: false},
			},
		},
		"UpdateCommand": {
			Type:     "object",
			Required: []string{"title", "prompt"},
			Properties: map[string]*openapi.Schema{
				"title":       {Type: "string", MinLength: openapi.Ptr(1)},
				"prompt":      {Type: "string", MinLength: openapi.Ptr(1)},
				"template":    {Type: "string"},
				"is_favorite": {Type: "boolean"},
			},
		},
		"SearchRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"page":      {Type: "integer"},
				"page_size": {Type: "integer"},
				"search":    {Type: "string"},
				"sort":      {Type: "string"},
				"favorite":  {Type: "boolean"},
			},
		},
		"RenderRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"values": {Type: "object", Description: "Placeholder name to value"},
			},
		},
		"RenderResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"text": {Type: "string"},
			},
		},
		"Placeholders": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"placeholders": {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
		"MissingPlaceholders": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"error":   {Type: "string"},
				"missing": {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
	},
}
