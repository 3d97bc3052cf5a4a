package mcp

import "github.com/mark3labs/mcp-go/mcp"

func listCategoriesTool() mcp.Tool {
	return mcp.NewTool("list_categories",
		mcp.WithDescription("Returns the component directories of the project and how many components each holds."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func listComponentsTool() mcp.Tool {
	return mcp.NewTool("list_components",
		mcp.WithDescription("Lists documented components, optionally filtered by category and a keyword matched against name and description."),
		mcp.WithString("category", mcp.Description("Category (directory) to list, e.g. \"components/forms\"")),
		mcp.WithString("keyword", mcp.Description("Case-insensitive keyword")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func getComponentDocsTool() mcp.Tool {
	return mcp.NewTool("get_component_docs",
		mcp.WithDescription("Returns the full documentation of components: props, events, slots, methods, computed values, data, watchers, mixins and store bindings."),
		mcp.WithArray("names",
			mcp.Required(),
			mcp.Description("Component names or source paths relative to the project root"),
			mcp.WithStringItems(),
		),
		mcp.WithString("format",
			mcp.Description("Output format"),
			mcp.Enum(formatJSON, formatMarkdown),
			mcp.DefaultString(formatJSON),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func searchComponentsTool() mcp.Tool {
	return mcp.NewTool("search_components",
		mcp.WithDescription("Searches component names, descriptions and the names of props, events and slots."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Case-insensitive search text")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func parseComponentTool() mcp.Tool {
	return mcp.NewTool("parse_component",
		mcp.WithDescription("Extracts documentation from component source that is not in the catalog, such as an unsaved edit."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Full source of a .vue, .js or .ts component")),
		mcp.WithString("filename",
			mcp.Description("File name used to pick the handling, e.g. \"Button.vue\""),
			mcp.DefaultString("Component.vue"),
		),
		mcp.WithString("format",
			mcp.Description("Output format"),
			mcp.Enum(formatJSON, formatMarkdown),
			mcp.DefaultString(formatJSON),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}
