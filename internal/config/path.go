package config

const (
	//? These paths must match the paths in the embed directive

	StaticLocalDir = "static"
	StaticUrlPath  = "/" + StaticLocalDir + "/"

	TemplatesLocalDir = "templates"

	TemplateLayout   = "layout.html"
	TemplateComposer = "composer.html"
	TemplatePartials = "partials.html"
)

// Named templates defined in TemplatePartials.
const (
	PartialButtons = "buttons"
	PartialImage   = "image"
	PartialStatus  = "status"
)
