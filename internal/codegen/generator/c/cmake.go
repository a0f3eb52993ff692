package cgen

import (
	"bytes"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/commschamp/commsdslgen/internal/codegen/gen"
)

var cmakeTmpl = template.Must(template.New("cmake").Parse(`cmake_minimum_required(VERSION 3.10)
project({{.Name}}_c VERSION {{.Version}} LANGUAGES C CXX)

set(CMAKE_CXX_STANDARD 11)
set(CMAKE_CXX_STANDARD_REQUIRED ON)

find_package(LibComms REQUIRED)
find_package({{.Name}} REQUIRED)

# Library source files
add_library({{.Name}}_c
{{range .Sources}}    {{.}}
{{end}})

# Include directories
target_include_directories({{.Name}}_c
    PUBLIC
        $<BUILD_INTERFACE:${CMAKE_CURRENT_SOURCE_DIR}/include>
        $<INSTALL_INTERFACE:include>
    PRIVATE
        ${CMAKE_CURRENT_SOURCE_DIR}/src
)

target_link_libraries({{.Name}}_c PRIVATE cc::{{.Name}} cc::comms)

# Installation
install(TARGETS {{.Name}}_c
    LIBRARY DESTINATION lib
    ARCHIVE DESTINATION lib
    RUNTIME DESTINATION bin
)
{{range .IncludeDirs}}
install(DIRECTORY include/{{.}}
    DESTINATION include
)
{{end}}`))

func generateCMake(logger *slog.Logger, w *gen.Writer, g *gen.Generator, sources []string) error {
	protocol := g.ProtocolSchema()
	var dirs []string
	for _, s := range g.Schemas() {
		if s.Prepared() {
			dirs = append(dirs, includeDir(s))
		}
	}

	data := struct {
		Name        string
		Version     uint
		Sources     []string
		IncludeDirs []string
	}{
		Name:        protocol.MainNamespace(),
		Version:     protocol.SchemaVersion(),
		Sources:     sources,
		IncludeDirs: dirs,
	}

	var buf bytes.Buffer
	if err := cmakeTmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute CMake template: %w", err)
	}

	// Write failures are collected by the writer.
	_ = w.Write("CMakeLists.txt", buf.Bytes())
	logger.Info("Generated CMakeLists.txt", "dir", g.OutputDir())
	return nil
}
