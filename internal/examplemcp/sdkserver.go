package examplemcp

import (
	"context"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/protobuf/types/known/structpb"
)

// A second demo server built on the official SDK. It answers with structured
// content rather than text blocks, which gives the client's result decoding
// a different shape to chew on.

type EchoParams struct {
	Text string `json:"text" jsonschema:"the text to echo back"`
}

func Echo(ctx context.Context, req *mcp.ServerRequest[*mcp.CallToolParamsFor[EchoParams]]) (*mcp.CallToolResultFor[any], error) {
	st, err := structpb.NewStruct(map[string]interface{}{"result": req.Params.Arguments.Text})
	if err != nil {
		return nil, err
	}
	return &mcp.CallToolResultFor[any]{
		StructuredContent: st,
	}, nil
}

type UpperParams struct {
	Text string `json:"text" jsonschema:"the text to convert to uppercase"`
}

func Upper(ctx context.Context, req *mcp.ServerRequest[*mcp.CallToolParamsFor[UpperParams]]) (*mcp.CallToolResultFor[any], error) {
	st, err := structpb.NewStruct(map[string]interface{}{"result": strings.ToUpper(req.Params.Arguments.Text)})
	if err != nil {
		return nil, err
	}
	return &mcp.CallToolResultFor[any]{
		StructuredContent: st,
	}, nil
}

// RunStructuredServer builds the SDK-based demo server.
func RunStructuredServer(serverName string) http.Handler {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: "0.1.0"}, nil)
	mcp.AddTool(server, &mcp.Tool{Name: "echo", Description: "echoes input as structured content"}, Echo)
	mcp.AddTool(server, &mcp.Tool{Name: "upper", Description: "uppercase a string"}, Upper)

	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
}
