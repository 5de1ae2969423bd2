package stdlib

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"

	"github.com/kr1shnaakhurana/zenlang/zen"
)

var paletteColors = map[string]lipgloss.Color{
	"red":     lipgloss.Color("#EF4444"),
	"green":   lipgloss.Color("#10B981"),
	"yellow":  lipgloss.Color("#F59E0B"),
	"blue":    lipgloss.Color("#3B82F6"),
	"magenta": lipgloss.Color("#D946EF"),
	"cyan":    lipgloss.Color("#06B6D4"),
	"white":   lipgloss.Color("#F9FAFB"),
}

// console renders styled output for one interpreter. The renderer follows
// the color profile of the interpreter's stdout, so plain writers get plain
// text.
type console struct {
	rt *Runtime
	in *zen.Interpreter
	r  *lipgloss.Renderer
}

func (c *console) style(color string) lipgloss.Style {
	s := c.r.NewStyle()
	if col, ok := paletteColors[strings.ToLower(color)]; ok {
		s = s.Foreground(col)
	}
	return s
}

func (c *console) println(text string) {
	fmt.Fprintln(c.in.Stdout(), text)
}

func (c *console) say(color, prefix string) zen.BuiltinFunc {
	return func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
		c.println(c.style(color).Render(prefix + zen.Arg(args, 0).String()))
		return zen.NewNull(), nil
	}
}

func boxText(r *lipgloss.Renderer, text string) string {
	return r.NewStyle().Border(lipgloss.ASCIIBorder()).Padding(0, 1).Render(text)
}

func tableText(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.ASCIIBorder()).
		Headers(headers...).
		Rows(rows...).
		String()
}

func progressBar(current, total float64, prefix string, length int) string {
	percent := 0.0
	if total > 0 {
		percent = current / total
	}
	percent = min(max(percent, 0), 1)
	filled := int(float64(length) * percent)
	return fmt.Sprintf("\r%s |%s%s| %d%%", prefix, strings.Repeat("█", filled), strings.Repeat("-", length-filled), int(percent*100))
}

func validate(value zen.Value, rules []string) bool {
	text := value.String()
	for _, rule := range rules {
		switch {
		case rule == "required":
			if !value.Truthy() {
				return false
			}
		case rule == "number":
			if !value.IsNumber() {
				if _, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err != nil {
					return false
				}
			}
		case rule == "email":
			at := strings.Index(text, "@")
			if at < 1 || !strings.Contains(text[at+1:], ".") {
				return false
			}
		case strings.HasPrefix(rule, "min:"):
			if n, err := strconv.Atoi(rule[4:]); err == nil && len([]rune(text)) < n {
				return false
			}
		case strings.HasPrefix(rule, "max:"):
			if n, err := strconv.Atoi(rule[4:]); err == nil && len([]rune(text)) > n {
				return false
			}
		}
	}
	return true
}

func (rt *Runtime) loadZenwares(in *zen.Interpreter) (zen.Value, error) {
	c := &console{rt: rt, in: in, r: lipgloss.NewRenderer(in.Stdout())}
	null := zen.NewNull()

	return object("zenwares", funcs{
		"clear": func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			fmt.Fprint(in.Stdout(), "\033[H\033[2J")
			return null, nil
		},
		"title": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			text := zen.Arg(args, 0).String()
			rule := strings.Repeat("=", len([]rune(text))+4)
			c.println(rule)
			c.println(c.r.NewStyle().Bold(true).Render("  " + text + "  "))
			c.println(rule)
			return null, nil
		},
		"header": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			c.println("\n" + c.r.NewStyle().Bold(true).Render("=== "+zen.Arg(args, 0).String()+" ===") + "\n")
			return null, nil
		},
		"separator": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			rule, err := zen.RepeatString(stringArg(args, 0, "-"), intArg(args, 1, 50))
			if err != nil {
				return null, err
			}
			c.println(rule)
			return null, nil
		},
		"box": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			c.println(boxText(c.r, zen.Arg(args, 0).String()))
			return null, nil
		},
		"table": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			var rows [][]string
			for _, row := range zen.Arg(args, 1).Elements() {
				rows = append(rows, zen.StringList(row))
			}
			c.println(tableText(zen.StringList(zen.Arg(args, 0)), rows))
			return null, nil
		},
		"progress": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			current, total := zen.Arg(args, 0).Float(), zen.Arg(args, 1).Float()
			fmt.Fprint(in.Stdout(), progressBar(current, total, stringArg(args, 2, "Progress:"), int(intArg(args, 3, 40))))
			if current >= total {
				fmt.Fprintln(in.Stdout())
			}
			return null, nil
		},
		"spinner": func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			message := stringArg(args, 0, "Loading")
			frames := []string{"|", "/", "-", `\`}
			end := time.Now().Add(time.Duration(zen.Arg(args, 1).Float() * float64(time.Second)))
			if zen.Arg(args, 1).IsNull() {
				end = time.Now().Add(2 * time.Second)
			}
			for i := 0; time.Now().Before(end); i++ {
				fmt.Fprintf(in.Stdout(), "\r%s %s", message, frames[i%len(frames)])
				if err := rt.sleep(in, 100*time.Millisecond); err != nil {
					return null, err
				}
			}
			fmt.Fprintf(in.Stdout(), "\r%s Done!     \n", message)
			return null, nil
		},
		"menu": func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			options := zen.StringList(zen.Arg(args, 1))
			c.println("\n" + zen.Arg(args, 0).String())
			c.println(strings.Repeat("-", 50))
			for i, opt := range options {
				c.println(fmt.Sprintf("  %d. %s", i+1, opt))
			}
			c.println(strings.Repeat("-", 50))
			for {
				fmt.Fprint(in.Stdout(), "Select option: ")
				line, err := in.ReadLine()
				if err != nil {
					c.println("\nCancelled")
					return zen.NewInt(-1), nil
				}
				n, err := strconv.Atoi(strings.TrimSpace(line))
				switch {
				case err != nil:
					c.println("Please enter a valid number")
				case n < 1 || n > len(options):
					c.println(fmt.Sprintf("Please enter a number between 1 and %d", len(options)))
				default:
					return zen.NewInt(int64(n - 1)), nil
				}
			}
		},
		"confirm": func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			fmt.Fprint(in.Stdout(), zen.Arg(args, 0).String()+" (y/n): ")
			line, _ := in.ReadLine()
			answer := strings.ToLower(strings.TrimSpace(line))
			return zen.NewBool(answer == "y" || answer == "yes"), nil
		},
		"pause": func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			fmt.Fprint(in.Stdout(), stringArg(args, 0, "Press Enter to continue..."))
			_, _ = in.ReadLine()
			return null, nil
		},
		"validate": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			return zen.NewBool(validate(zen.Arg(args, 0), zen.StringList(zen.Arg(args, 1)))), nil
		},
		"saveData": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			data, err := json.MarshalIndent(zen.ToNative(zen.Arg(args, 1)), "", "  ")
			if err == nil {
				err = os.WriteFile(zen.Arg(args, 0).String(), data, 0o644)
			}
			if err != nil {
				c.println(fmt.Sprintf("Error saving data: %v", err))
				return zen.NewBool(false), nil
			}
			return zen.NewBool(true), nil
		},
		"loadData": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			data, err := os.ReadFile(zen.Arg(args, 0).String())
			if err != nil {
				if !os.IsNotExist(err) {
					c.println(fmt.Sprintf("Error loading data: %v", err))
				}
				return null, nil
			}
			val, err := zen.DecodeJSON(string(data))
			if err != nil {
				c.println(fmt.Sprintf("Error loading data: %v", err))
				return null, nil
			}
			return val, nil
		},
		"timestamp": func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			return zen.NewString(time.Now().Format(dateLayout)), nil
		},
		"log": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			message, level := zen.Arg(args, 0).String(), strings.ToUpper(stringArg(args, 1, "INFO"))
			c.println(fmt.Sprintf("[%s] [%s] %s", time.Now().Format(dateLayout), level, message))
			rt.log.Debug().Str("package", "zenwares").Str("level", level).Msg(message)
			return null, nil
		},
		"error":   c.say("red", "ERROR: "),
		"success": c.say("green", "✓ "),
		"warning": c.say("yellow", "⚠ "),
		"info":    c.say("blue", "ℹ "),
		"colorize": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			return zen.NewString(c.style(zen.Arg(args, 1).String()).Render(zen.Arg(args, 0).String())), nil
		},
		"createApp": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			return c.app(zen.Arg(args, 0).String(), stringArg(args, 1, "1.0.0")), nil
		},
	}, nil), nil
}

// app is the object returned by createApp.
func (c *console) app(name, version string) zen.Value {
	running := true
	return zen.NewObject(map[string]zen.Value{
		"name":    zen.NewString(name),
		"version": zen.NewString(version),
		"start": zen.NewBuiltin("app.start", func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			c.println(boxText(c.r, c.r.NewStyle().Bold(true).Render(name+" v"+version)))
			c.println("")
			return zen.NewNull(), nil
		}),
		"stop": zen.NewBuiltin("app.stop", func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			running = false
			c.println(fmt.Sprintf("\nThank you for using %s!", name))
			return zen.NewNull(), nil
		}),
		"isRunning": zen.NewBuiltin("app.isRunning", func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			return zen.NewBool(running), nil
		}),
	})
}
