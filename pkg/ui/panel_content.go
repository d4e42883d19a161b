package ui

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/poemtyper/pkg/config"
	"github.com/vanderheijden86/poemtyper/pkg/keys"
	"github.com/vanderheijden86/poemtyper/pkg/version"
)

// PanelTitles are the header button labels, also used as panel titles.
var PanelTitles = map[keys.Action]string{
	keys.ActionHelp:     "Aide",
	keys.ActionSettings: "Réglages",
	keys.ActionAbout:    "À propos",
	keys.ActionBlog:     "Blog",
}

// BuildPanels assembles the four overlays. Markdown set in cfg.Panels
// replaces the built-in text, except that Settings always ends with the
// effective configuration.
func BuildPanels(km keys.KeyMap, cfg config.Config, configPath string) map[keys.Action]Panel {
	panels := map[keys.Action]Panel{
		keys.ActionHelp:     {Markdown: helpMarkdown(km)},
		keys.ActionSettings: {Markdown: settingsIntro},
		keys.ActionAbout:    {Markdown: aboutMarkdown()},
		keys.ActionBlog:     {Markdown: blogMarkdown},
	}

	overrides := map[keys.Action]string{
		keys.ActionHelp:     cfg.Panels.Help,
		keys.ActionSettings: cfg.Panels.Settings,
		keys.ActionAbout:    cfg.Panels.About,
		keys.ActionBlog:     cfg.Panels.Blog,
	}
	for a, md := range overrides {
		if strings.TrimSpace(md) != "" {
			p := panels[a]
			p.Markdown = md
			panels[a] = p
		}
	}

	s := panels[keys.ActionSettings]
	s.Markdown += "\n\n" + effectiveConfigMarkdown(cfg, configPath)
	panels[keys.ActionSettings] = s

	for a, p := range panels {
		p.Action = a
		p.Title = PanelTitles[a]
		panels[a] = p
	}
	return panels
}

func helpMarkdown(km keys.KeyMap) string {
	var b strings.Builder
	b.WriteString(helpIntro)
	b.WriteString("\n\n| Touche | Action |\n|---|---|\n")
	for _, a := range keys.Actions {
		if bind, ok := km.Binding(a); ok {
			fmt.Fprintf(&b, "| `%s` | %s |\n", strings.Join(bind.Keys(), "`, `"), bind.Help().Desc)
		}
	}
	b.WriteString("\nLa molette de la souris fait défiler le poème ; les boutons de l'en-tête sont cliquables.")

	var optIn []string
	for _, a := range keys.Actions {
		if _, bound := km.Binding(a); bound {
			continue
		}
		if chord, ok := keys.SuggestedChords[a]; ok {
			optIn = append(optIn, fmt.Sprintf("  %s: %s", a, chord))
		}
	}
	if len(optIn) > 0 {
		b.WriteString("\n\nToutes les autres touches font avancer l'écriture. Pour réserver des raccourcis, ajoutez-les à la configuration :\n\n```yaml\nkeys:\n")
		b.WriteString(strings.Join(optIn, "\n"))
		b.WriteString("\n```")
	}
	return b.String()
}

func effectiveConfigMarkdown(cfg config.Config, configPath string) string {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Sprintf("_Configuration illisible : %v_", err)
	}
	src := configPath
	if src == "" {
		src = "valeurs par défaut"
	}
	return fmt.Sprintf("**Configuration effective** (%s) :\n\n```yaml\n%s```\n\nModifiez-la avec `pt configure`.", src, data)
}

func aboutMarkdown() string {
	return fmt.Sprintf(aboutTemplate, version.String())
}

const helpIntro = `## Comment ça marche

Chaque touche pressée révèle **un caractère** du poème : d'abord le titre,
puis, après une pression supplémentaire, le texte.

Une fois le poème entièrement écrit, les touches n'ont plus d'effet.
Choisissez alors un **nouveau poème**.`

const settingsIntro = `## Réglages

Le fichier de configuration suit XDG : ` + "`~/.config/pt/config.yaml`" + `.
Les options de la ligne de commande ont priorité sur le fichier.`

const aboutTemplate = `## PoèmeTyper

Une machine à écrire pour la poésie : vous tapez, le poème s'écrit.

Version **%s**.

Les poèmes fournis appartiennent au domaine public.`

const blogMarkdown = `## Blog

*Pourquoi taper un poème ?*

Recopier un texte ralentit la lecture. Chaque vers arrive à la vitesse
de vos doigts, et l'on remarque ce que l'œil survolait : une virgule,
un retour à la ligne, un silence.

Ajoutez vos propres recueils avec ` + "`--dataset`" + ` (JSON, YAML ou SQLite).`
