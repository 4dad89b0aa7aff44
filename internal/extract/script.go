// Package extract builds page analysis reports, either inside a live browser
// page (Script) or offline from parsed HTML (FromHTML).
package extract

// Script returns the expression evaluated in the page. It yields a plain JSON
// object matching report.Report; texts are returned whole and limited on the
// Go side.
func Script() string {
	return `(() => {
		const text = (el) => (el && el.innerText ? el.innerText : '');

		const headings = Array.from(document.querySelectorAll('h1, h2, h3, h4, h5, h6')).map(h => ({
			tag: h.tagName.toLowerCase(),
			text: text(h).trim()
		}));

		const navLinks = Array.from(document.querySelectorAll('nav a, header a')).map(a => ({
			text: text(a).trim(),
			href: a.getAttribute('href') ?? ''
		}));

		const forms = Array.from(document.querySelectorAll('form')).map(form => ({
			action: form.getAttribute('action'),
			method: form.getAttribute('method'),
			fields: Array.from(form.querySelectorAll('input, textarea, select')).map(field => ({
				type: field.type || field.tagName.toLowerCase(),
				name: field.name || undefined,
				placeholder: 'placeholder' in field ? field.placeholder : undefined,
				required: !!field.required
			}))
		}));

		const images = Array.from(document.querySelectorAll('img')).map(img => ({
			src: img.src,
			alt: img.alt
		}));

		// cross-origin sheets throw on cssRules and are skipped
		const cssVars = Array.from(document.styleSheets)
			.flatMap(sheet => {
				try {
					return Array.from(sheet.cssRules);
				} catch (e) {
					return [];
				}
			})
			.filter(rule => rule.selectorText === ':root')
			.flatMap(rule => Array.from(rule.style))
			.filter(prop => prop.startsWith('--'));

		const meta = {
			title: document.title,
			description: document.querySelector('meta[name="description"]')?.content,
			keywords: document.querySelector('meta[name="keywords"]')?.content,
			lang: document.documentElement.lang || undefined
		};

		const sections = Array.from(document.querySelectorAll('section, .section, main > div')).map((section, idx) => ({
			index: idx,
			id: section.id || null,
			classes: typeof section.className === 'string' ? section.className : (section.getAttribute('class') || ''),
			heading: section.querySelector('h1, h2, h3')?.innerText.trim(),
			text: text(section)
		}));

		return {
			meta,
			headings,
			navLinks,
			forms,
			images,
			cssVars,
			sections,
			bodyText: text(document.body)
		};
	})()`
}
