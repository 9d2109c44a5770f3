// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigNotFoundId Id = iota + 1
	ConfigNameInvalidId
	ConfigParseErrorId
	SourceFilesMissingId
	BuildFailedId
	ArtifactMissingId
	ContainerEngineNotFoundId
	ContainerStartFailedId
	ContainerStopFailedId
	GradleWrapperFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Markdown returns the message with a trailing "See also" section listing
// every documentation and external link.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also:\n")
		for _, link := range i.docLinks {
			sb.WriteString("- " + string(link) + "\n")
		}
		for _, link := range i.extLinks {
			sb.WriteString("- " + string(link) + "\n")
		}
	}
	return sb.String()
}

// Render renders the issue for a terminal using the given glamour style
// ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	configNotFoundIssue = &Issue{
		id: ConfigNotFoundId,
		mdMsg: `
# Configuration file not found!

wdee needs a configuration file describing the extension sources to package.

## Things you can try:
- Check the path passed after the command:
~~~
$ wdee build ./wiremock/wdee-config.yaml
~~~
- Create a minimal configuration:
~~~yaml
source-files-location: extensions
source-files:
  - com.example.MyExtension.kt
~~~`,
		docLinks: []HttpLink{"https://wiremock.org/docs/extending-wiremock/"},
	}

	configNameInvalidIssue = &Issue{
		id: ConfigNameInvalidId,
		mdMsg: `
# Invalid configuration file name!

The configuration file must be named exactly ` + "`wdee-config.yaml`" + `. The directory
holding it is also where the ` + "`mappings`" + ` and ` + "`__files`" + ` directories are expected.

## Things you can try:
- Rename your file:
~~~
$ mv my-config.yaml wdee-config.yaml
~~~`,
	}

	configParseErrorIssue = &Issue{
		id: ConfigParseErrorId,
		mdMsg: `
# Failed to parse the configuration!

The configuration file is not valid YAML or does not match the expected schema.

## Supported keys:
- ` + "`source-files-location`" + ` (string, required)
- ` + "`source-files`" + ` (list of file names, required)
- ` + "`dependencies`" + ` (list of Gradle coordinates, optional)
- ` + "`jar-run-config`" + `: ` + "`docker-container-name`" + `, ` + "`docker-port`" + `, ` + "`wiremock-cl-options`" + ` (optional)

## Things you can try:
- Check the error message above for the offending key
- Make sure ` + "`source-files-location`" + ` points to an existing directory relative to the config file`,
	}

	sourceFilesMissingIssue = &Issue{
		id: SourceFilesMissingId,
		mdMsg: `
# Some source files were not found

Missing source files are skipped. The JAR is still built from the remaining files.

## Things you can try:
- Check each entry of ` + "`source-files`" + ` against ` + "`source-files-location`" + `
- Entries may carry their package as a prefix: ` + "`com.example.MyExtension.kt`" + ` is looked up as ` + "`MyExtension.kt`",
	}

	buildFailedIssue = &Issue{
		id: BuildFailedId,
		mdMsg: `
# Failed to build the extensions JAR!

Gradle could not compile the extension sources or assemble the shaded JAR.

## Things you can try:
- Read the compiler output above for the failing file and line
- Check that every library your extensions import is listed under ` + "`dependencies`" + `
- Check that a JDK (11 or newer) is installed and on the PATH`,
		extLinks: []HttpLink{"https://docs.gradle.org/current/userguide/troubleshooting.html"},
	}

	gradleWrapperFailedIssue = &Issue{
		id: GradleWrapperFailedId,
		mdMsg: `
# The Gradle wrapper could not set up Gradle!

The build stopped before compiling anything. On first use the wrapper downloads
and unpacks a Gradle distribution, which needs some tools on the host.

## Host requirements:
- **Linux and macOS**: ` + "`curl`" + ` or ` + "`wget`" + `, and ` + "`unzip`" + `
- **Windows**: PowerShell

## Things you can try:
- Install the missing tool, for example:
~~~
$ sudo apt-get install curl unzip
~~~
- Check that ` + "`services.gradle.org`" + ` is reachable from this machine
- Remove a partial download under ` + "`~/.gradle/wrapper/dists`" + ` and build again`,
		extLinks: []HttpLink{"https://docs.gradle.org/current/userguide/gradle_wrapper.html"},
	}

	artifactMissingIssue = &Issue{
		id: ArtifactMissingId,
		mdMsg: `
# Gradle finished but no JAR was produced!

The build reported success but the shaded JAR was not found where it was expected.

## Things you can try:
- Run again with ` + "`--verbose`" + ` to see the exact paths involved
- Make sure nothing else deletes the ` + "`.extensions-builder`" + ` directory while building`,
	}

	containerEngineNotFoundIssue = &Issue{
		id: ContainerEngineNotFoundId,
		mdMsg: `
# Container engine not found!

The ` + "`run`" + ` command starts WireMock in a container but no container engine is available.

## Supported container engines:
- **Docker**
- **Podman**

## Things you can try:
- Install Docker: https://docs.docker.com/get-docker/
- Install Podman: https://podman.io
- Use ` + "`wdee build`" + ` and run the JAR with your own WireMock installation`,
	}

	containerStartFailedIssue = &Issue{
		id: ContainerStartFailedId,
		mdMsg: `
# Failed to start the WireMock container!

## Things you can try:
- Make sure the host port configured in ` + "`jar-run-config.docker-port`" + ` is free
- Check that the container engine daemon is running
- Check that the image can be pulled:
~~~
$ docker pull wiremock/wiremock:3.13.1
~~~`,
	}

	containerStopFailedIssue = &Issue{
		id: ContainerStopFailedId,
		mdMsg: `
# Failed to stop the WireMock container!

The container may still be running.

## Things you can try:
~~~
$ docker ps --filter name=wiremock-docker-easy-extensions
$ docker rm -f wiremock-docker-easy-extensions
~~~`,
	}

	issues = map[Id]*Issue{
		configNotFoundIssue.Id():          configNotFoundIssue,
		configNameInvalidIssue.Id():       configNameInvalidIssue,
		configParseErrorIssue.Id():        configParseErrorIssue,
		sourceFilesMissingIssue.Id():      sourceFilesMissingIssue,
		buildFailedIssue.Id():             buildFailedIssue,
		artifactMissingIssue.Id():         artifactMissingIssue,
		containerEngineNotFoundIssue.Id(): containerEngineNotFoundIssue,
		containerStartFailedIssue.Id():    containerStartFailedIssue,
		containerStopFailedIssue.Id():     containerStopFailedIssue,
		gradleWrapperFailedIssue.Id():     gradleWrapperFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
