// Copyright (c) 2025-2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/finnagene/finnagene/templates"
)

var _ = Describe("RunProperties", func() {
	Describe("Validate", func() {
		DescribeTable("validation tests",
			func(prop RunProperties, errorText string) {
				err := prop.Validate()

				if errorText != "" {
					Expect(err).To(HaveOccurred())
					Expect(err.Error()).To(ContainSubstring(errorText))
				} else {
					Expect(err).ToNot(HaveOccurred())
				}
			},

			Entry("executable only", RunProperties{Executable: "/bin/echo", Sink: "out.txt"}, ""),
			Entry("executable with arguments", RunProperties{Executable: "java", Arguments: []string{"-jar", "x.jar"}, Sink: "out.txt"}, ""),
			Entry("command", RunProperties{Command: "java -jar 'my app.jar' -s", Sink: "out.txt"}, ""),
			Entry("missing command", RunProperties{Sink: "out.txt"}, "command is required"),
			Entry("blank command", RunProperties{Command: "   ", Sink: "out.txt"}, "command is required"),
			Entry("command and executable", RunProperties{Command: "echo", Executable: "echo", Sink: "out.txt"}, "only one of command or executable"),
			Entry("command and arguments", RunProperties{Command: "echo", Arguments: []string{"x"}, Sink: "out.txt"}, "only one of command or executable"),
			Entry("invalid shell quote", RunProperties{Command: "/bin/echo 'unterminated", Sink: "out.txt"}, "Unterminated"),
			Entry("missing sink", RunProperties{Executable: "echo"}, "sink is required"),
		)

		It("Should skip validation when SkipValidate is true", func() {
			prop := &RunProperties{SkipValidate: true}
			Expect(prop.Validate()).To(Succeed())
		})
	})

	Describe("CommandVector", func() {
		It("Should combine the executable and arguments", func() {
			prop := &RunProperties{Executable: "java", Arguments: []string{"-jar", "finnahaku.jar", "9789520102814", "-s"}}

			vector, err := prop.CommandVector()
			Expect(err).ToNot(HaveOccurred())
			Expect(vector).To(Equal([]string{"java", "-jar", "finnahaku.jar", "9789520102814", "-s"}))
		})

		It("Should not share the arguments slice", func() {
			prop := &RunProperties{Executable: "echo", Arguments: []string{"hello"}}

			vector, err := prop.CommandVector()
			Expect(err).ToNot(HaveOccurred())
			vector[1] = "changed"
			Expect(prop.Arguments).To(Equal([]string{"hello"}))
		})

		DescribeTable("shell quoted commands",
			func(command string, expected []string) {
				prop := &RunProperties{Command: command}

				vector, err := prop.CommandVector()
				Expect(err).ToNot(HaveOccurred())
				Expect(vector).To(Equal(expected))
			},

			Entry("simple", "echo hello", []string{"echo", "hello"}),
			Entry("single quotes", "java -jar 'C:/koodi/java/finnahaku.jar' -s", []string{"java", "-jar", "C:/koodi/java/finnahaku.jar", "-s"}),
			Entry("double quotes", `/bin/echo "hello world"`, []string{"/bin/echo", "hello world"}),
			Entry("escaped space", `/bin/echo hello\ world`, []string{"/bin/echo", "hello world"}),
		)
	})

	Describe("DisplayName", func() {
		It("Should prefer the name", func() {
			Expect((&RunProperties{Name: "finnahaku", Executable: "java"}).DisplayName()).To(Equal("finnahaku"))
		})

		It("Should fall back to the executable", func() {
			Expect((&RunProperties{Command: "java -jar x.jar"}).DisplayName()).To(Equal("java"))
			Expect((&RunProperties{}).DisplayName()).To(Equal(""))
		})
	})

	Describe("ResolveTemplates", func() {
		It("Should resolve all templated fields", func() {
			prop := &RunProperties{
				Executable: "{{ Data.java }}",
				Arguments:  []string{"-jar", "{{ Data.jar }}", "{{ Data.isbn }}"},
				Sink:       "{{ Data.isbn }}.txt",
				Data: map[string]any{
					"java": "/usr/bin/java",
					"jar":  "finnahaku.jar",
					"isbn": "9789520102814",
				},
			}

			Expect(prop.ResolveTemplates(prop.TemplateEnv())).To(Succeed())
			Expect(prop.Executable).To(Equal("/usr/bin/java"))
			Expect(prop.Arguments).To(Equal([]string{"-jar", "finnahaku.jar", "9789520102814"}))
			Expect(prop.Sink).To(Equal("9789520102814.txt"))
		})

		It("Should resolve commands", func() {
			prop := &RunProperties{Command: "echo {{ Data.word }}", Data: map[string]any{"word": "hello"}}
			Expect(prop.ResolveTemplates(prop.TemplateEnv())).To(Succeed())
			Expect(prop.Command).To(Equal("echo hello"))
		})

		It("Should fail on invalid expressions", func() {
			prop := &RunProperties{Executable: "echo", Arguments: []string{"{{ Data.x + }}"}}
			Expect(prop.ResolveTemplates(&templates.Env{})).ToNot(Succeed())
		})
	})

	Describe("YAML", func() {
		It("Should parse documents", func() {
			prop, err := NewRunPropertiesFromYaml([]byte(`
name: finnahaku
executable: java
arguments:
  - -jar
  - "{{ Data.jar }}"
  - "9789520102814"
  - -s
sink: output.txt
history: /var/lib/finnagene/history
data:
  jar: /opt/finnahaku/finnahaku.jar
`))
			Expect(err).ToNot(HaveOccurred())
			Expect(prop.Name).To(Equal("finnahaku"))
			Expect(prop.Executable).To(Equal("java"))
			Expect(prop.Arguments).To(Equal([]string{"-jar", "{{ Data.jar }}", "9789520102814", "-s"}))
			Expect(prop.Sink).To(Equal("output.txt"))
			Expect(prop.History).To(Equal("/var/lib/finnagene/history"))
			Expect(prop.Data).To(HaveKeyWithValue("jar", "/opt/finnahaku/finnahaku.jar"))
			Expect(prop.Validate()).To(Succeed())
		})

		It("Should round trip through ToYamlManifest", func() {
			prop := &RunProperties{Command: "echo hello", Sink: "out.txt"}

			raw, err := prop.ToYamlManifest()
			Expect(err).ToNot(HaveOccurred())

			parsed, err := NewRunPropertiesFromYaml(raw)
			Expect(err).ToNot(HaveOccurred())
			Expect(parsed).To(Equal(prop))
		})

		DescribeTable("schema violations",
			func(doc string) {
				_, err := NewRunPropertiesFromYaml([]byte(doc))
				Expect(err).To(HaveOccurred())
			},

			Entry("unknown key", "executable: echo\nsink: out.txt\ntimeout: 10s\n"),
			Entry("numeric argument", "executable: echo\narguments:\n  - 9789520102814\n"),
			Entry("arguments not a list", "executable: echo\narguments: -s\n"),
			Entry("command and executable", "executable: echo\ncommand: echo hello\n"),
			Entry("empty sink", "executable: echo\nsink: \"\"\n"),
			Entry("not a map", "- echo\n"),
		)

		It("Should mention the schema in errors", func() {
			err := ValidateRunPropertiesDocument([]byte("executable: echo\nbogus: true\n"))
			Expect(err).To(MatchError(ContainSubstring("invalid run properties")))
		})
	})
})
