package gallery

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Rendered fragments reuse the galleria- CSS class family so themes can style
// script output, footers and thumbnails consistently.
const (
	outputTemplate = `.. rst-class:: galleria-script-out

 Out::

%s
`

	signatureRST = `

.. only:: html

 .. rst-class:: galleria-signature

    ` + "`Gallery generated by Galleria <https://git.home.luguber.info/inful/galleria>`_" + `
`

	downloadTemplate = `
.. only :: html

 .. container:: galleria-footer

  .. container:: galleria-download

     :download:` + "`Download source code: %[1]s <%[1]s>`" + `

  .. container:: galleria-download

     :download:` + "`Download Jupyter notebook: %[2]s <%[2]s>`" + `
`

	thumbnailTemplate = `
.. raw:: html

    <div class="galleria-thumbcontainer" tooltip="%s">

.. only:: html

    .. figure:: /%s

        :ref:` + "`%s`" + `

.. raw:: html

    </div>
`
)

// codeBlockRST renders source as an indented code-block directive. A positive
// lineno adds a :lineno-start: option, shifted past leading blank lines so
// numbering starts at the first rendered statement.
func codeBlockRST(code, lang string, lineno int) string {
	var opts string
	if lineno > 0 {
		leading := len(code) - len(strings.TrimLeft(code, " \t\n"))
		blankLines := strings.Count(code[:leading], "\n")
		opts = fmt.Sprintf("   :lineno-start: %d\n", lineno+blankLines)
	}
	return "\n.. code-block:: " + lang + "\n" + opts + "\n" + indent(code, "    ")
}

// outputRST wraps captured stdout in the script-out container.
func outputRST(stdout string) string {
	return fmt.Sprintf(outputTemplate, indent(stdout, "    "))
}

// downloadFooter links the copied source and its notebook twin for download.
func downloadFooter(fname string) string {
	return fmt.Sprintf(downloadTemplate, fname, ReplaceStarIpynb(fname))
}

// timingFooter reports total script runtime in the minutes/seconds form used
// across gallery pages.
func timingFooter(seconds float64) string {
	m := int(seconds) / 60
	s := seconds - float64(m)*60
	return fmt.Sprintf("**Total running time of the script:** ( %d minutes  %.3f seconds)\n\n", m, s)
}

// anchorRef derives the cross-reference label of an example from its path
// relative to the documentation source root.
func anchorRef(exampleFile, srcDir string) string {
	rel, err := filepath.Rel(srcDir, exampleFile)
	if err != nil {
		rel = filepath.Base(exampleFile)
	}
	rel = filepath.ToSlash(rel)
	return "galleria_" + strings.ReplaceAll(rel, "/", "_")
}

// thumbnailDiv renders one index entry: the thumbnail figure wrapped in a
// floating container whose tooltip carries the example intro.
func thumbnailDiv(buildTargetDir, fname, intro string) string {
	base := strings.TrimSuffix(fname, filepath.Ext(fname))
	thumb := filepath.ToSlash(filepath.Join(buildTargetDir, "images", "thumb", "galleria_"+base+"_thumb.png"))
	ref := "galleria_" + strings.ReplaceAll(filepath.ToSlash(filepath.Join(buildTargetDir, fname)), "/", "_")
	tooltip := strings.ReplaceAll(intro, `"`, "&quot;")
	return fmt.Sprintf(thumbnailTemplate, tooltip, thumb, ref)
}

// indent prefixes every non-blank line, leaving blank lines untouched.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
