package commsgen

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/commschamp/commsdslgen/internal/codegen/comms"
)

var cmakeTmpl = template.Must(template.New("cmake").Parse(`cmake_minimum_required(VERSION 3.10)
project({{.Name}} VERSION {{.Version}} LANGUAGES CXX)

option(OPT_REQUIRE_COMMS_LIB "Require COMMS library to be found" ON)

# Header only library
add_library({{.Name}} INTERFACE)
add_library(cc::{{.Name}} ALIAS {{.Name}})

target_include_directories({{.Name}} INTERFACE
    $<BUILD_INTERFACE:${CMAKE_CURRENT_SOURCE_DIR}/include>
    $<INSTALL_INTERFACE:include>
)

if(OPT_REQUIRE_COMMS_LIB)
    find_package(LibComms REQUIRED)
    target_link_libraries({{.Name}} INTERFACE cc::comms)
endif()

# Installation
install(TARGETS {{.Name}} EXPORT {{.Name}}Config)
{{range .Namespaces}}
install(DIRECTORY include/{{.}}
    DESTINATION include
)
{{end}}
install(EXPORT {{.Name}}Config
    NAMESPACE cc::
    DESTINATION lib/{{.Name}}/cmake
)
`))

// cmake writes the CMakeLists.txt exporting the generated headers as an
// interface library named after the protocol namespace.
func (c *commsGen) cmake() {
	protocol := c.g.ProtocolSchema()
	var namespaces []string
	for _, s := range c.g.Schemas() {
		if s.Prepared() {
			namespaces = append(namespaces, s.MainNamespace())
		}
	}

	data := struct {
		Name       string
		Version    uint
		Namespaces []string
	}{
		Name:       protocol.MainNamespace(),
		Version:    protocol.SchemaVersion(),
		Namespaces: namespaces,
	}

	var buf bytes.Buffer
	if err := cmakeTmpl.Execute(&buf, data); err != nil {
		c.fail(fmt.Errorf("execute CMake template: %w", err))
		return
	}

	// Write failures are collected by the writer.
	_ = c.w.Write("CMakeLists.txt", buf.Bytes())
	c.logger.Info("Generated CMakeLists.txt", "dir", c.g.OutputDir())
}

func (c *commsGen) readmeContents() []string {
	var list []string
	for _, s := range c.g.Schemas() {
		if !s.Prepared() {
			continue
		}
		ns := s.MainNamespace()
		list = append(list,
			fmt.Sprintf("`%s/%s/`: protocol definition headers of the `%s` schema", comms.IncludeDir, ns, s.Name()),
			fmt.Sprintf("`%s/%s/%s/%s.h`: default (empty) protocol options", comms.IncludeDir, ns, comms.OptionsNamespace, defaultOptionsName),
			fmt.Sprintf("`%s/%s/%s/%s.h`: all the input messages bundled in `std::tuple`", comms.IncludeDir, ns, comms.InputNamespace, allMessagesName),
		)
	}
	return append(list, "`CMakeLists.txt`: header only library definition linking against the COMMS library")
}
